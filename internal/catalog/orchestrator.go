package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"stockroom/internal/model"
)

// Bridge is the remote command interface the orchestrator drives. Calls
// block until the remote settles; there is no cancellation beyond ctx and
// no local timeout (a hung call holds the in-flight slot).
type Bridge interface {
	FetchAll(ctx context.Context, collection string) ([]model.RawItem, error)
	Create(ctx context.Context, collection string, fields model.Fields) (string, error)
	Update(ctx context.Context, collection string, id string, fields model.Fields) (bool, error)
	Delete(ctx context.Context, collection string, id string) (bool, error)
}

// OpKind tags the in-flight operation token.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// OpToken is the single-slot in-flight marker for mutating operations.
// One slot for all kinds: two operations never run concurrently, even on
// distinct items. That scope is deliberate, not a multi-writer guarantee.
type OpToken struct {
	Kind     OpKind
	TargetID string
}

// Orchestrator issues remote operations, validates inputs, and applies
// optimistic updates to the mirror based on resolved outcomes. Mutations
// are "last local write wins until next full fetch": no re-fetch happens
// after create/update/delete.
//
// The mutex covers the mirror, selection and in-flight slot. It is never
// held across a bridge call; the in-flight token is what keeps a second
// mutating operation from starting while one is outstanding.
type Orchestrator struct {
	bridge     Bridge
	collection string
	log        zerolog.Logger

	mu       sync.Mutex
	mirror   *Mirror
	sel      Selection
	loading  bool
	inFlight *OpToken
}

// NewOrchestrator wires the orchestrator to a bridge and collection name.
func NewOrchestrator(b Bridge, collection string, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		bridge:     b,
		collection: strings.TrimSpace(collection),
		log:        log,
		mirror:     NewMirror(),
	}
}

// Items returns the current mirror contents in insertion order.
func (o *Orchestrator) Items() []model.Item {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mirror.Items()
}

// Loading reports whether a full fetch is outstanding.
func (o *Orchestrator) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

// InFlight returns the current mutating-operation token, if any.
func (o *Orchestrator) InFlight() (OpToken, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight == nil {
		return OpToken{}, false
	}
	return *o.inFlight, true
}

// Submitting reports whether any mutating operation is outstanding.
func (o *Orchestrator) Submitting() bool {
	_, ok := o.InFlight()
	return ok
}

// BeginEdit resolves the target's canonical id and stores it as the edit
// target. Fails without touching anything when no id can be resolved.
func (o *Orchestrator) BeginEdit(raw model.RawItem) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sel.StartEdit(raw)
}

// EditingTarget exposes the current edit target.
func (o *Orchestrator) EditingTarget() (model.Item, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sel.EditingTarget()
}

// CancelEdit clears the edit slot without any remote call.
func (o *Orchestrator) CancelEdit() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sel.CancelEdit()
}

// BeginDelete resolves the target's canonical id (falling back through both
// identifier fields) and records it as awaiting confirmation.
func (o *Orchestrator) BeginDelete(raw model.RawItem) error {
	id, ok := ResolveID(raw)
	if !ok {
		return validationErr("id", "item has no identifier; cannot delete")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sel.StartDelete(id)
	return nil
}

// PendingDeleteID returns the id awaiting delete confirmation, or "".
func (o *Orchestrator) PendingDeleteID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sel.PendingDeleteID()
}

// CancelDelete clears the pending-delete slot without any remote call.
func (o *Orchestrator) CancelDelete() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sel.CancelDelete()
}

// Fetch replaces the mirror with the remote collection. On any failure
// (transport or malformed record) the mirror is left exactly as it was.
// Refused while a mutating operation is outstanding so a fetch completion
// can never clobber an optimistic apply.
func (o *Orchestrator) Fetch(ctx context.Context) (int, error) {
	o.mu.Lock()
	if o.inFlight != nil || o.loading {
		o.mu.Unlock()
		return 0, ErrBusy
	}
	o.loading = true
	o.mu.Unlock()

	raws, err := o.bridge.FetchAll(ctx, o.collection)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.loading = false
	if err != nil {
		o.log.Error().Err(err).Str("collection", o.collection).Msg("fetch failed")
		return 0, err
	}
	items, err := NormalizeAll(raws)
	if err != nil {
		o.log.Error().Err(err).Str("collection", o.collection).Msg("fetch returned malformed record")
		return 0, err
	}
	if err := o.mirror.ReplaceAll(items); err != nil {
		o.log.Error().Err(err).Str("collection", o.collection).Msg("fetch returned duplicate ids")
		return 0, err
	}
	o.log.Debug().Int("count", len(items)).Str("collection", o.collection).Msg("fetch ok")
	return len(items), nil
}

// Create validates locally, then submits. On success the returned id plus
// the local copy of the submitted fields is appended to the mirror; no
// re-fetch is performed.
func (o *Orchestrator) Create(ctx context.Context, fields model.Fields) (model.Item, error) {
	if err := validateFields(fields); err != nil {
		return model.Item{}, err
	}
	if err := o.acquire(OpCreate, ""); err != nil {
		return model.Item{}, err
	}

	id, err := o.bridge.Create(ctx, o.collection, fields)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = nil
	if err != nil {
		o.log.Error().Err(err).Str("collection", o.collection).Msg("create failed")
		return model.Item{}, err
	}
	it := model.Item{ID: id, Name: fields.Name, Description: fields.Description, Price: fields.Price}
	if err := o.mirror.Append(it); err != nil {
		// The remote accepted the record but handed back an id we already
		// hold. Surface it; the next fetch reconciles.
		o.log.Error().Err(err).Str("id", id).Msg("created id collides with mirror")
		return model.Item{}, err
	}
	o.log.Debug().Str("id", id).Msg("create ok")
	return it, nil
}

// Update submits the edited fields for the current edit target. A false
// result from the remote is the logical no-op (ErrNoMatch): distinct from
// failure, no mirror mutation. The edit target is cleared only on success.
func (o *Orchestrator) Update(ctx context.Context, fields model.Fields) (model.Item, error) {
	target, ok := o.EditingTarget()
	if !ok {
		return model.Item{}, validationErr("id", "no edit target resolved")
	}
	if err := validateFields(fields); err != nil {
		return model.Item{}, err
	}
	if err := o.acquire(OpUpdate, target.ID); err != nil {
		return model.Item{}, err
	}

	changed, err := o.bridge.Update(ctx, o.collection, target.ID, fields)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = nil
	if err != nil {
		o.log.Error().Err(err).Str("id", target.ID).Msg("update failed")
		return model.Item{}, err
	}
	if !changed {
		o.log.Debug().Str("id", target.ID).Msg("update matched nothing")
		return model.Item{}, ErrNoMatch
	}
	updated := model.Item{ID: target.ID, Name: fields.Name, Description: fields.Description, Price: fields.Price}
	if err := o.mirror.ReplaceOne(target.ID, updated); err != nil {
		// Target vanished from the mirror while the call was in flight.
		// The remote change stands; leave the mirror for the next fetch.
		o.log.Warn().Str("id", target.ID).Msg("updated item no longer in mirror")
	}
	o.sel.CancelEdit()
	o.log.Debug().Str("id", target.ID).Msg("update ok")
	return updated, nil
}

// Delete removes the pending-delete target. The pending-delete slot is
// cleared once the operation settles, whatever the outcome.
func (o *Orchestrator) Delete(ctx context.Context) error {
	id := o.PendingDeleteID()
	if id == "" {
		return validationErr("id", "no delete target resolved")
	}
	if err := o.acquire(OpDelete, id); err != nil {
		return err
	}

	removed, err := o.bridge.Delete(ctx, o.collection, id)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = nil
	o.sel.CancelDelete()
	if err != nil {
		o.log.Error().Err(err).Str("id", id).Msg("delete failed")
		return err
	}
	if !removed {
		o.log.Debug().Str("id", id).Msg("delete matched nothing")
		return ErrNoMatch
	}
	if err := o.mirror.RemoveOne(id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	o.log.Debug().Str("id", id).Msg("delete ok")
	return nil
}

// acquire takes the in-flight slot. Refused while a fetch is outstanding:
// a fetch settling after an optimistic apply would silently revert it.
func (o *Orchestrator) acquire(kind OpKind, targetID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight != nil || o.loading {
		return ErrBusy
	}
	o.inFlight = &OpToken{Kind: kind, TargetID: targetID}
	return nil
}

func validateFields(f model.Fields) error {
	if strings.TrimSpace(f.Name) == "" {
		return validationErr("name", "must not be empty")
	}
	if strings.TrimSpace(f.Description) == "" {
		return validationErr("description", "must not be empty")
	}
	if f.Price <= 0 {
		return validationErr("price", "must be greater than zero")
	}
	return nil
}
