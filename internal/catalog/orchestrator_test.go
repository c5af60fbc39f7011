package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"stockroom/internal/model"
)

// fakeBridge scripts remote outcomes and counts calls.
type fakeBridge struct {
	fetchCalls  int
	createCalls int
	updateCalls int
	deleteCalls int

	fetchResult  []model.RawItem
	fetchErr     error
	createID     string
	createErr    error
	updateResult bool
	updateErr    error
	deleteResult bool
	deleteErr    error

	// blockUntil, when non-nil, makes Create (or FetchAll, when blockFetch
	// is set) wait so a second operation can be attempted while the first
	// is in flight; entered signals the wait has begun.
	blockUntil chan struct{}
	entered    chan struct{}
	blockFetch bool
}

func (f *fakeBridge) FetchAll(_ context.Context, _ string) ([]model.RawItem, error) {
	f.fetchCalls++
	if f.blockFetch && f.blockUntil != nil {
		close(f.entered)
		<-f.blockUntil
	}
	return f.fetchResult, f.fetchErr
}

func (f *fakeBridge) Create(_ context.Context, _ string, _ model.Fields) (string, error) {
	f.createCalls++
	if !f.blockFetch && f.blockUntil != nil {
		close(f.entered)
		<-f.blockUntil
	}
	return f.createID, f.createErr
}

func (f *fakeBridge) Update(_ context.Context, _ string, _ string, _ model.Fields) (bool, error) {
	f.updateCalls++
	return f.updateResult, f.updateErr
}

func (f *fakeBridge) Delete(_ context.Context, _ string, _ string) (bool, error) {
	f.deleteCalls++
	return f.deleteResult, f.deleteErr
}

func (f *fakeBridge) mutatingCalls() int {
	return f.createCalls + f.updateCalls + f.deleteCalls
}

func newTestOrchestrator(t *testing.T, b Bridge) *Orchestrator {
	t.Helper()
	return NewOrchestrator(b, "items", zerolog.Nop())
}

func seedMirror(t *testing.T, o *Orchestrator, b *fakeBridge, items ...model.RawItem) {
	t.Helper()
	b.fetchResult = items
	if _, err := o.Fetch(context.Background()); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}
}

func TestFetch_ReplacesMirrorWithNormalizedRecords(t *testing.T) {
	b := &fakeBridge{fetchResult: []model.RawItem{
		{RemoteID: "r1", Name: "Bolt", Description: "M4", Price: 2},
		{RemoteID: "r2", AppID: "a2", Name: "Nut", Description: "M4", Price: 1},
	}}
	o := newTestOrchestrator(t, b)

	n, err := o.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 items, got %d", n)
	}
	items := o.Items()
	if items[0].ID != "r1" || items[1].ID != "a2" {
		t.Fatalf("identifier normalization wrong: %+v", items)
	}
	if o.Loading() {
		t.Fatalf("loading flag not cleared after fetch")
	}
}

func TestFetch_FailureLeavesMirrorUnchanged(t *testing.T) {
	b := &fakeBridge{}
	o := newTestOrchestrator(t, b)
	seedMirror(t, o, b, model.RawItem{AppID: "1", Name: "Bolt", Description: "M4", Price: 2})

	b.fetchErr = errors.New("backend unreachable")
	if _, err := o.Fetch(context.Background()); err == nil {
		t.Fatalf("expected fetch error")
	}
	if len(o.Items()) != 1 || o.Items()[0].ID != "1" {
		t.Fatalf("mirror changed by failed fetch: %+v", o.Items())
	}
	if o.Loading() {
		t.Fatalf("loading flag held after failed fetch")
	}
}

func TestFetch_MalformedRecordIsIntegrityErrorNotSilentDrop(t *testing.T) {
	b := &fakeBridge{}
	o := newTestOrchestrator(t, b)
	seedMirror(t, o, b, model.RawItem{AppID: "1", Name: "Bolt", Description: "M4", Price: 2})

	b.fetchResult = []model.RawItem{
		{AppID: "2", Name: "Nut", Description: "M4", Price: 1},
		{Name: "no ids at all", Description: "x", Price: 1},
	}
	_, err := o.Fetch(context.Background())
	if err == nil {
		t.Fatalf("expected data-integrity error")
	}
	// Prior mirror contents survive.
	if len(o.Items()) != 1 || o.Items()[0].ID != "1" {
		t.Fatalf("mirror changed by malformed fetch: %+v", o.Items())
	}
}

func TestCreate_ValidationBlocksRemoteCall(t *testing.T) {
	cases := []model.Fields{
		{Name: "", Description: "x", Price: 5},
		{Name: "Bolt", Description: "", Price: 5},
		{Name: "Bolt", Description: "x", Price: 0},
		{Name: "Bolt", Description: "x", Price: -1},
	}
	for _, fields := range cases {
		b := &fakeBridge{createID: "never"}
		o := newTestOrchestrator(t, b)
		_, err := o.Create(context.Background(), fields)
		if !IsValidation(err) {
			t.Fatalf("fields %+v: expected validation error, got %v", fields, err)
		}
		if b.mutatingCalls() != 0 {
			t.Fatalf("fields %+v: remote called despite validation failure", fields)
		}
	}
}

func TestCreate_AppendsWithRemoteIDAndNoRefetch(t *testing.T) {
	b := &fakeBridge{createID: "3"}
	o := newTestOrchestrator(t, b)
	seedMirror(t, o, b,
		model.RawItem{AppID: "1", Name: "Bolt", Description: "M4", Price: 2},
		model.RawItem{AppID: "2", Name: "Nut", Description: "M4", Price: 1},
	)
	fetchesBefore := b.fetchCalls

	it, err := o.Create(context.Background(), model.Fields{Name: "Screw", Description: "M3", Price: 0.5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if it.ID != "3" {
		t.Fatalf("expected remote-assigned id, got %q", it.ID)
	}
	items := o.Items()
	if len(items) != 3 {
		t.Fatalf("expected prior mirror plus one, got %+v", items)
	}
	last := items[2]
	if last.ID != "3" || last.Name != "Screw" || last.Description != "M3" || last.Price != 0.5 {
		t.Fatalf("appended item is not the local submitted copy: %+v", last)
	}
	if b.fetchCalls != fetchesBefore {
		t.Fatalf("create triggered a re-fetch")
	}
	if o.Submitting() {
		t.Fatalf("submitting flag held after create settled")
	}
}

func TestCreate_TransportFailureLeavesMirrorUnchanged(t *testing.T) {
	b := &fakeBridge{createErr: errors.New("insert rejected")}
	o := newTestOrchestrator(t, b)
	seedMirror(t, o, b, model.RawItem{AppID: "1", Name: "Bolt", Description: "M4", Price: 2})

	_, err := o.Create(context.Background(), model.Fields{Name: "Screw", Description: "M3", Price: 0.5})
	if err == nil || IsValidation(err) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if len(o.Items()) != 1 {
		t.Fatalf("mirror changed by failed create: %+v", o.Items())
	}
	if o.Submitting() {
		t.Fatalf("submitting flag held after failed create")
	}
}

func TestCreate_RefusedWhileAnotherOperationInFlight(t *testing.T) {
	release := make(chan struct{})
	b := &fakeBridge{createID: "9", blockUntil: release, entered: make(chan struct{})}
	o := newTestOrchestrator(t, b)

	done := make(chan error, 1)
	go func() {
		_, err := o.Create(context.Background(), model.Fields{Name: "A", Description: "a", Price: 1})
		done <- err
	}()
	// The first create has taken the in-flight slot once the bridge call
	// has started.
	<-b.entered

	_, err := o.Create(context.Background(), model.Fields{Name: "B", Description: "b", Price: 1})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for concurrent create, got %v", err)
	}
	if _, ferr := o.Fetch(context.Background()); !errors.Is(ferr, ErrBusy) {
		t.Fatalf("expected fetch to be refused while submitting, got %v", ferr)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first create: %v", err)
	}
	if tok, ok := o.InFlight(); ok {
		t.Fatalf("in-flight token not cleared: %+v", tok)
	}
}

func TestCreate_RefusedWhileFetchOutstanding(t *testing.T) {
	release := make(chan struct{})
	b := &fakeBridge{blockUntil: release, entered: make(chan struct{}), blockFetch: true}
	o := newTestOrchestrator(t, b)

	done := make(chan error, 1)
	go func() {
		_, err := o.Fetch(context.Background())
		done <- err
	}()
	<-b.entered

	// A fetch settling after an optimistic apply would revert it, so
	// mutations wait for the fetch.
	_, err := o.Create(context.Background(), model.Fields{Name: "A", Description: "a", Price: 1})
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy while fetch outstanding, got %v", err)
	}
	if b.createCalls != 0 {
		t.Fatalf("remote create called while fetch outstanding")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("fetch: %v", err)
	}
}

func TestUpdate_RequiresResolvedEditTarget(t *testing.T) {
	b := &fakeBridge{updateResult: true}
	o := newTestOrchestrator(t, b)

	// No BeginEdit at all.
	_, err := o.Update(context.Background(), model.Fields{Name: "x", Description: "y", Price: 1})
	if !IsValidation(err) {
		t.Fatalf("expected validation error without edit target, got %v", err)
	}
	// An item with no identifier cannot even open an edit.
	if err := o.BeginEdit(model.RawItem{Name: "ghost", Description: "no ids", Price: 1}); !IsValidation(err) {
		t.Fatalf("expected validation error for identifier-less edit target, got %v", err)
	}
	if b.mutatingCalls() != 0 {
		t.Fatalf("remote called despite unresolved target")
	}
}

func TestUpdate_SuccessReplacesRecordAndClearsEditTarget(t *testing.T) {
	b := &fakeBridge{updateResult: true}
	o := newTestOrchestrator(t, b)
	seedMirror(t, o, b, model.RawItem{AppID: "2", Name: "Nut", Description: "M4", Price: 1})

	if err := o.BeginEdit(model.RawItem{AppID: "2", Name: "Nut", Description: "M4", Price: 1}); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	it, err := o.Update(context.Background(), model.Fields{Name: "Locknut", Description: "M4 nylon", Price: 1.5})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if it.ID != "2" || it.Name != "Locknut" {
		t.Fatalf("unexpected updated item: %+v", it)
	}
	got, ok := o.Items()[0], len(o.Items()) == 1
	if !ok || got.Name != "Locknut" || got.Price != 1.5 {
		t.Fatalf("mirror not replaced in place: %+v", o.Items())
	}
	if _, editing := o.EditingTarget(); editing {
		t.Fatalf("edit target not cleared after successful update")
	}
}

func TestUpdate_FalseResultIsLogicalNoOp(t *testing.T) {
	b := &fakeBridge{updateResult: false}
	o := newTestOrchestrator(t, b)
	seedMirror(t, o, b, model.RawItem{AppID: "2", Name: "Nut", Description: "M4", Price: 1})

	if err := o.BeginEdit(model.RawItem{AppID: "2", Name: "Nut", Description: "M4", Price: 1}); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	_, err := o.Update(context.Background(), model.Fields{Name: "Locknut", Description: "M4", Price: 1.5})
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	if o.Items()[0].Name != "Nut" {
		t.Fatalf("mirror mutated by logical no-op: %+v", o.Items())
	}
	// No-op is not success: the edit target survives for another attempt.
	if _, editing := o.EditingTarget(); !editing {
		t.Fatalf("edit target cleared by logical no-op")
	}
	if o.Submitting() {
		t.Fatalf("submitting flag held after no-op")
	}
}

func TestUpdate_HardFailureKeepsMirrorAndTarget(t *testing.T) {
	b := &fakeBridge{updateErr: errors.New("write concern")}
	o := newTestOrchestrator(t, b)
	seedMirror(t, o, b, model.RawItem{AppID: "2", Name: "Nut", Description: "M4", Price: 1})

	if err := o.BeginEdit(model.RawItem{AppID: "2", Name: "Nut", Description: "M4", Price: 1}); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	_, err := o.Update(context.Background(), model.Fields{Name: "Locknut", Description: "M4", Price: 1.5})
	if err == nil || errors.Is(err, ErrNoMatch) || IsValidation(err) {
		t.Fatalf("expected hard failure, got %v", err)
	}
	if o.Items()[0].Name != "Nut" {
		t.Fatalf("mirror mutated by failed update: %+v", o.Items())
	}
}

func TestDelete_SuccessRemovesItemAndClearsPending(t *testing.T) {
	b := &fakeBridge{deleteResult: true}
	o := newTestOrchestrator(t, b)
	seedMirror(t, o, b,
		model.RawItem{AppID: "1", Name: "Bolt", Description: "M4", Price: 2},
		model.RawItem{AppID: "2", Name: "Nut", Description: "M4", Price: 1},
	)

	if err := o.BeginDelete(model.RawItem{AppID: "1"}); err != nil {
		t.Fatalf("begin delete: %v", err)
	}
	if err := o.Delete(context.Background()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, it := range o.Items() {
		if it.ID == "1" {
			t.Fatalf("deleted item still in mirror: %+v", o.Items())
		}
	}
	if o.PendingDeleteID() != "" {
		t.Fatalf("pendingDeleteID not cleared after delete settled")
	}
}

func TestDelete_FalseAndFailureLeaveMirrorButClearPending(t *testing.T) {
	for name, b := range map[string]*fakeBridge{
		"logical no-op": {deleteResult: false},
		"hard failure":  {deleteErr: errors.New("timeout")},
	} {
		o := newTestOrchestrator(t, b)
		seedMirror(t, o, b, model.RawItem{AppID: "1", Name: "Bolt", Description: "M4", Price: 2})

		if err := o.BeginDelete(model.RawItem{AppID: "1"}); err != nil {
			t.Fatalf("%s: begin delete: %v", name, err)
		}
		err := o.Delete(context.Background())
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if len(o.Items()) != 1 {
			t.Fatalf("%s: mirror changed: %+v", name, o.Items())
		}
		if o.PendingDeleteID() != "" {
			t.Fatalf("%s: pendingDeleteID not cleared on settle", name)
		}
	}
}

func TestDelete_ResolvesIDThroughEitherField(t *testing.T) {
	b := &fakeBridge{deleteResult: true}
	o := newTestOrchestrator(t, b)
	seedMirror(t, o, b, model.RawItem{RemoteID: "r9", Name: "Bolt", Description: "M4", Price: 2})

	// Only the remote-native field is set on the targeted record.
	if err := o.BeginDelete(model.RawItem{RemoteID: "r9"}); err != nil {
		t.Fatalf("begin delete: %v", err)
	}
	if o.PendingDeleteID() != "r9" {
		t.Fatalf("expected fallback to remote id, got %q", o.PendingDeleteID())
	}
	// No identifier at all is a validation error with zero remote calls.
	if err := o.BeginDelete(model.RawItem{Name: "ghost"}); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if b.deleteCalls != 0 {
		t.Fatalf("remote delete called before confirmation")
	}
}

func TestSelection_SlotsAreIndependent(t *testing.T) {
	o := newTestOrchestrator(t, &fakeBridge{})

	if err := o.BeginEdit(model.RawItem{AppID: "1", Name: "Bolt"}); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := o.BeginDelete(model.RawItem{AppID: "2"}); err != nil {
		t.Fatalf("begin delete: %v", err)
	}
	if _, editing := o.EditingTarget(); !editing {
		t.Fatalf("setting pending delete cleared the edit target")
	}
	if o.PendingDeleteID() != "2" {
		t.Fatalf("setting edit target clobbered pending delete")
	}
	o.CancelEdit()
	if o.PendingDeleteID() != "2" {
		t.Fatalf("cancel edit cleared pending delete")
	}
	o.CancelDelete()
	if o.PendingDeleteID() != "" {
		t.Fatalf("cancel delete did not clear the slot")
	}
}
