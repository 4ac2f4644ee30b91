package contactsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"contactapp/cterm/internal/events"
	"contactapp/cterm/internal/models"
)

type fakeStore struct {
	mu        sync.Mutex
	contacts  []models.Contact
	fetchErr  error
	deleteErr error
	fetches   int
	deleted   []int64
}

func (f *fakeStore) FetchAll(ctx context.Context) ([]models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]models.Contact, len(f.contacts))
	copy(out, f.contacts)
	return out, nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, c := range f.contacts {
		if c.IDValue() == id {
			f.contacts = append(f.contacts[:i:i], f.contacts[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeStore) set(contacts []models.Contact, fetchErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = contacts
	f.fetchErr = fetchErr
}

func makeContacts(n int) []models.Contact {
	out := make([]models.Contact, n)
	for i := range out {
		out[i] = models.Contact{
			ID:    models.Int64Ptr(int64(i + 1)),
			Name:  "Contact",
			Email: "c@example.com",
			Phone: "1234567890",
		}
	}
	return out
}

func newController(t *testing.T, store Store) *Controller {
	t.Helper()
	c, err := New(store, Config{PageSize: 10, Timeout: time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Failed to create controller: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// collect runs cmd, expanding batches, and returns every message produced within
// a short wait. Commands still blocked after the wait are abandoned.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	out := make(chan tea.Msg, 16)
	var pending sync.WaitGroup
	var run func(tea.Cmd)
	run = func(cmd tea.Cmd) {
		if cmd == nil {
			return
		}
		pending.Add(1)
		go func() {
			defer pending.Done()
			msg := cmd()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			if msg != nil {
				out <- msg
			}
		}()
	}
	run(cmd)

	var msgs []tea.Msg
	deadline := time.After(100 * time.Millisecond)
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		case <-deadline:
			return msgs
		}
	}
}

func loadedMsg(t *testing.T, msgs []tea.Msg) LoadedMsg {
	t.Helper()
	for _, msg := range msgs {
		if loaded, ok := msg.(LoadedMsg); ok {
			return loaded
		}
	}
	t.Fatalf("Expected a LoadedMsg in %v", msgs)
	return LoadedMsg{}
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(nil, Config{}, nil); err == nil {
		t.Error("Expected error for nil store")
	}
	if _, err := New(&fakeStore{}, Config{PageSize: -1}, nil); err == nil {
		t.Error("Expected error for negative page size")
	}
}

func TestLoadTransitionsToReady(t *testing.T) {
	store := &fakeStore{contacts: makeContacts(23)}
	c := newController(t, store)

	if c.State() != StateLoading {
		t.Errorf("Expected initial state loading, got %s", c.State())
	}

	cmd := c.Load()
	if !c.Loading() {
		t.Error("Expected loading after Load")
	}

	if !c.HandleLoaded(cmd().(LoadedMsg)) {
		t.Fatal("Expected load to be applied")
	}
	if c.State() != StateReady {
		t.Errorf("Expected ready, got %s", c.State())
	}
	if c.Pager().Len() != 23 || c.Pager().TotalPages() != 3 {
		t.Errorf("Unexpected pager: %d items, %d pages", c.Pager().Len(), c.Pager().TotalPages())
	}
	if c.LastError() != nil {
		t.Errorf("Unexpected error: %v", c.LastError())
	}
}

func TestInitialLoadFailureLeavesEmptyList(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("offline")}
	c := newController(t, store)

	c.HandleLoaded(c.Load()().(LoadedMsg))
	if c.State() != StateReady {
		t.Errorf("Expected ready after failure, got %s", c.State())
	}
	if c.Pager().Len() != 0 {
		t.Errorf("Expected empty list, got %d", c.Pager().Len())
	}
	if c.LastError() == nil {
		t.Error("Expected last error to be set")
	}
}

func TestFailedReloadKeepsStaleList(t *testing.T) {
	store := &fakeStore{contacts: makeContacts(15)}
	c := newController(t, store)
	c.HandleLoaded(c.Load()().(LoadedMsg))
	c.Pager().GoToPage(2)

	store.set(nil, errors.New("server down"))
	c.HandleLoaded(c.Load()().(LoadedMsg))

	if c.Pager().Len() != 15 || c.Pager().CurrentPage() != 2 {
		t.Errorf("Expected stale list on page 2, got %d items on page %d", c.Pager().Len(), c.Pager().CurrentPage())
	}
	if c.LastError() == nil {
		t.Error("Expected last error after failed reload")
	}

	store.set(makeContacts(15), nil)
	c.HandleLoaded(c.Load()().(LoadedMsg))
	if c.LastError() != nil {
		t.Error("Successful load should clear the error")
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	store := &fakeStore{contacts: makeContacts(5)}
	c := newController(t, store)

	first := c.Load()
	second := c.Load()

	newer := second().(LoadedMsg)
	store.set(makeContacts(30), nil)
	older := first().(LoadedMsg)

	if !c.HandleLoaded(newer) {
		t.Fatal("Expected newest load to apply")
	}
	if c.HandleLoaded(older) {
		t.Error("Expected older load to be discarded")
	}
	if c.Pager().Len() != 5 {
		t.Errorf("Expected 5 items from the newest load, got %d", c.Pager().Len())
	}
}

func TestOlderResponseDoesNotEndLoading(t *testing.T) {
	store := &fakeStore{contacts: makeContacts(3)}
	c := newController(t, store)

	first := c.Load()
	c.Load()

	c.HandleLoaded(first().(LoadedMsg))
	if !c.Loading() {
		t.Error("A superseded response should not end the loading state")
	}
}

func TestReloadClampsPage(t *testing.T) {
	store := &fakeStore{contacts: makeContacts(21)}
	c := newController(t, store)
	c.HandleLoaded(c.Load()().(LoadedMsg))
	c.Pager().GoToPage(3)

	store.set(makeContacts(20), nil)
	c.HandleLoaded(c.Load()().(LoadedMsg))

	if c.Pager().CurrentPage() != 2 {
		t.Errorf("Expected page clamped to 2, got %d", c.Pager().CurrentPage())
	}
	if c.Pager().VisibleLen() != 10 {
		t.Errorf("Expected a full visible page, got %d", c.Pager().VisibleLen())
	}
}

func TestDeleteReloads(t *testing.T) {
	store := &fakeStore{contacts: makeContacts(3)}
	c := newController(t, store)
	c.HandleLoaded(c.Load()().(LoadedMsg))

	deleted := c.Delete(2)().(DeletedMsg)
	if deleted.Err != nil {
		t.Fatalf("Delete failed: %v", deleted.Err)
	}
	if c.Pager().Len() != 3 {
		t.Error("List should not change before the reload completes")
	}

	reload := c.HandleDeleted(deleted)
	if reload == nil {
		t.Fatal("Expected a reload command after delete")
	}
	if !c.Loading() {
		t.Error("Expected loading state after delete")
	}

	c.HandleLoaded(reload().(LoadedMsg))
	if c.Pager().Len() != 2 {
		t.Errorf("Expected 2 contacts after reload, got %d", c.Pager().Len())
	}
	for _, contact := range c.Contacts() {
		if contact.IDValue() == 2 {
			t.Error("Deleted contact still listed")
		}
	}
}

func TestDeleteFailureKeepsList(t *testing.T) {
	store := &fakeStore{contacts: makeContacts(3), deleteErr: errors.New("forbidden")}
	c := newController(t, store)
	c.HandleLoaded(c.Load()().(LoadedMsg))

	if cmd := c.HandleDeleted(c.Delete(1)().(DeletedMsg)); cmd != nil {
		t.Error("Failed delete should not reload")
	}
	if c.Pager().Len() != 3 || c.LastError() == nil {
		t.Error("Expected unchanged list and a recorded error")
	}
	if c.State() != StateReady {
		t.Errorf("Expected ready, got %s", c.State())
	}
}

func TestExternalChangeTriggersReload(t *testing.T) {
	store := &fakeStore{contacts: makeContacts(4)}
	c := newController(t, store)
	feed := events.NewChangeFeed(nil)
	changes, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	watch := c.Watch(changes)
	feed.Publish()

	msgs := collect(t, watch)
	if len(msgs) != 1 {
		t.Fatalf("Expected one message from the watch, got %v", msgs)
	}
	if _, ok := msgs[0].(ChangedMsg); !ok {
		t.Fatalf("Expected ChangedMsg, got %T", msgs[0])
	}

	store.set(makeContacts(9), nil)
	follow := c.Update(msgs[0])
	if !c.Loading() {
		t.Error("Expected loading after external change")
	}

	loaded := loadedMsg(t, collect(t, follow))
	c.Update(loaded)
	if c.Pager().Len() != 9 {
		t.Errorf("Expected 9 contacts after reload, got %d", c.Pager().Len())
	}
	if store.fetches != 1 {
		t.Errorf("Expected exactly one fetch, got %d", store.fetches)
	}
}

func TestWatchStopsOnClose(t *testing.T) {
	c := newController(t, &fakeStore{})
	feed := events.NewChangeFeed(nil)
	changes, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	watch := c.Watch(changes)
	done := make(chan tea.Msg, 1)
	go func() { done <- watch() }()

	c.Close()
	select {
	case msg := <-done:
		if msg != nil {
			t.Errorf("Expected nil message after close, got %T", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after Close")
	}
}

func TestMessagesAfterCloseAreIgnored(t *testing.T) {
	store := &fakeStore{contacts: makeContacts(3)}
	c := newController(t, store)
	pending := c.Load()

	c.Close()
	if c.HandleLoaded(pending().(LoadedMsg)) {
		t.Error("Expected load after close to be ignored")
	}
	if c.Pager().Len() != 0 {
		t.Error("Closed controller should not take new items")
	}
	if c.Load() != nil || c.Delete(1) != nil || c.OnExternalChange() != nil {
		t.Error("Closed controller should not issue commands")
	}
	if c.HandleDeleted(DeletedMsg{ID: 1}) != nil {
		t.Error("Closed controller should not reload after delete")
	}
}

func TestResultsFromReplacedControllerAreIgnored(t *testing.T) {
	old := newController(t, &fakeStore{contacts: makeContacts(7)})
	oldLoad := old.Load()
	oldDelete := old.Delete(1)
	loaded := oldLoad().(LoadedMsg)
	deleted := oldDelete().(DeletedMsg)
	old.Close()

	c := newController(t, &fakeStore{contacts: makeContacts(2)})
	if c.Generation() == old.Generation() {
		t.Fatal("Expected controllers to have distinct generations")
	}
	c.Load()

	if c.HandleLoaded(loaded) {
		t.Error("Expected load from a replaced controller to be ignored")
	}
	if !c.Loading() {
		t.Error("Expected controller to stay loading")
	}
	if c.Pager().Len() != 0 {
		t.Errorf("Expected no contacts, got %d", c.Pager().Len())
	}
	if cmd := c.HandleDeleted(deleted); cmd != nil {
		t.Error("Expected delete from a replaced controller to be ignored")
	}
	if cmd := c.Update(ChangedMsg{Gen: old.Generation()}); cmd != nil {
		t.Error("Expected change from a replaced controller to be ignored")
	}
}
