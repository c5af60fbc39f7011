package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeOut prints v as JSON on stdout. Compact by default so output pipes
// cleanly into jq; --pretty for humans.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
