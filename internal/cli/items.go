package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stockroom/internal/catalog"
	"stockroom/internal/model"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Item commands",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsUpdateCmd(app))
	cmd.AddCommand(newItemsRemoveCmd(app))
	return cmd
}

func newItemsListCmd(app *App) *cobra.Command {
	var (
		search string
		sortBy string
		order  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch the collection and print the derived view",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ord, err := parseSortFlags(sortBy, order)
			if err != nil {
				return err
			}
			ctx := context.Background()
			orc, cleanup, err := openOrchestrator(ctx, app)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := orc.Fetch(ctx); err != nil {
				return err
			}
			view := catalog.Derive(orc.Items(), search, key, ord)
			return writeOut(cmd, app, map[string]any{"data": view})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive substring filter over name/description")
	cmd.Flags().StringVar(&sortBy, "sort", "name", "Sort key (name|price)")
	cmd.Flags().StringVar(&order, "order", "asc", "Sort order (asc|desc)")
	return cmd
}

func newItemsAddCmd(app *App) *cobra.Command {
	var (
		name        string
		description string
		price       float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			orc, cleanup, err := openOrchestrator(ctx, app)
			if err != nil {
				return err
			}
			defer cleanup()

			it, err := orc.Create(ctx, model.Fields{
				Name:        strings.TrimSpace(name),
				Description: strings.TrimSpace(description),
				Price:       price,
			})
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().StringVar(&description, "description", "", "Item description")
	cmd.Flags().Float64Var(&price, "price", 0, "Item price (must be > 0)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newItemsUpdateCmd(app *App) *cobra.Command {
	var (
		name        string
		description string
		price       float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an item by canonical id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			ctx := context.Background()
			orc, cleanup, err := openOrchestrator(ctx, app)
			if err != nil {
				return err
			}
			defer cleanup()

			// Fetch first so flags the caller omitted keep their current
			// values (update replaces the whole record).
			if _, err := orc.Fetch(ctx); err != nil {
				return err
			}
			var current model.Item
			found := false
			for _, it := range orc.Items() {
				if it.ID == id {
					current, found = it, true
					break
				}
			}
			if !found {
				return errNotFound("item", id)
			}

			fields := current.Fields()
			if cmd.Flags().Changed("name") {
				fields.Name = strings.TrimSpace(name)
			}
			if cmd.Flags().Changed("description") {
				fields.Description = strings.TrimSpace(description)
			}
			if cmd.Flags().Changed("price") {
				fields.Price = price
			}

			if err := orc.BeginEdit(current.Raw()); err != nil {
				return err
			}
			updated, err := orc.Update(ctx, fields)
			if errors.Is(err, catalog.ErrNoMatch) {
				// Logical no-op: the remote matched nothing. Distinct from
				// failure; report and leave everything as it was.
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"id": id, "changed": false},
				})
			}
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": updated})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().Float64Var(&price, "price", 0, "New price (must be > 0)")
	return cmd
}

func newItemsRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete an item by canonical id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			ctx := context.Background()
			orc, cleanup, err := openOrchestrator(ctx, app)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := orc.BeginDelete(model.RawItem{AppID: id}); err != nil {
				return err
			}
			err = orc.Delete(ctx)
			if errors.Is(err, catalog.ErrNoMatch) {
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"id": id, "removed": false},
				})
			}
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": id, "removed": true},
			})
		},
	}
	return cmd
}

func parseSortFlags(sortBy, order string) (catalog.SortKey, catalog.SortOrder, error) {
	var key catalog.SortKey
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "", "name":
		key = catalog.SortByName
	case "price":
		key = catalog.SortByPrice
	default:
		return "", "", fmt.Errorf("unknown sort key %q (want name or price)", sortBy)
	}
	var ord catalog.SortOrder
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
		ord = catalog.Ascending
	case "desc":
		ord = catalog.Descending
	default:
		return "", "", fmt.Errorf("unknown sort order %q (want asc or desc)", order)
	}
	return key, ord, nil
}
