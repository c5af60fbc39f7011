package catalog

import (
	"strconv"
	"strings"

	"stockroom/internal/model"
)

// Normalize resolves a raw record's two identifier fields into the single
// canonical id: the application id when present, else the remote-native id.
// A record with neither is malformed and must not enter the mirror.
//
// Normalizing an already-normalized record is a no-op on the canonical id
// (Item.Raw sets both fields to the same value).
func Normalize(raw model.RawItem) (model.Item, error) {
	id, ok := ResolveID(raw)
	if !ok {
		return model.Item{}, ErrNoIdentifier
	}
	return model.Item{
		ID:          id,
		Name:        raw.Name,
		Description: raw.Description,
		Price:       raw.Price,
	}, nil
}

// ResolveID picks the canonical identifier from a raw record, preferring
// the application id over the remote-native one.
func ResolveID(raw model.RawItem) (string, bool) {
	if id := strings.TrimSpace(raw.AppID); id != "" {
		return id, true
	}
	if id := strings.TrimSpace(raw.RemoteID); id != "" {
		return id, true
	}
	return "", false
}

// NormalizeAll converts a fetched batch. The first malformed record fails
// the whole batch; callers must leave the mirror untouched in that case.
func NormalizeAll(raws []model.RawItem) ([]model.Item, error) {
	items := make([]model.Item, 0, len(raws))
	for i, raw := range raws {
		it, err := Normalize(raw)
		if err != nil {
			return nil, &ValidationError{
				Field:  "record",
				Reason: "fetched record " + strconv.Itoa(i) + " has no identifier",
			}
		}
		items = append(items, it)
	}
	return items, nil
}
