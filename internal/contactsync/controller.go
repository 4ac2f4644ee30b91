package contactsync

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"contactapp/cterm/internal/models"
	"contactapp/cterm/internal/pagination"
)

const DefaultTimeout = 15 * time.Second

// Store is the backend the controller reads from and deletes through.
type Store interface {
	FetchAll(ctx context.Context) ([]models.Contact, error)
	Delete(ctx context.Context, id int64) error
}

type State int

const (
	StateLoading State = iota
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// generations gives every controller a distinct id so results from a closed
// controller are never applied to its replacement.
var generations atomic.Uint64

// LoadedMsg carries the result of a fetch. Gen names the controller and Seq the
// load that produced it.
type LoadedMsg struct {
	Gen      uint64
	Seq      uint64
	Contacts []models.Contact
	Err      error
}

// ChangedMsg signals that the contact list changed somewhere else.
type ChangedMsg struct {
	Gen uint64
}

type DeletedMsg struct {
	Gen uint64
	ID  int64
	Err error
}

type Config struct {
	PageSize int
	Timeout  time.Duration
}

// Controller keeps a paginated contact list in step with the backend. It is not
// safe for concurrent use; all methods are called from the bubbletea update loop
// and only the returned commands run elsewhere.
type Controller struct {
	store   Store
	pager   *pagination.Paginator[models.Contact]
	logger  *slog.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	gen     uint64
	state   State
	issued  uint64
	lastErr error
	changes <-chan struct{}
	closed  bool
}

func New(store Store, config Config, logger *slog.Logger) (*Controller, error) {
	if store == nil {
		return nil, errors.New("contactsync: nil store")
	}
	if config.PageSize == 0 {
		config.PageSize = pagination.DefaultPageSize
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	pager, err := pagination.New[models.Contact](config.PageSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		store:   store,
		pager:   pager,
		logger:  logger,
		timeout: config.Timeout,
		ctx:     ctx,
		cancel:  cancel,
		gen:     generations.Add(1),
		state:   StateLoading,
	}, nil
}

// Load enters the loading state and returns a command fetching the full list.
func (c *Controller) Load() tea.Cmd {
	if c.closed {
		return nil
	}
	c.issued++
	c.state = StateLoading

	gen, seq := c.gen, c.issued
	ctx, store, timeout := c.ctx, c.store, c.timeout
	c.logger.Debug("loading contacts", slog.Uint64("seq", seq))

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		contacts, err := store.FetchAll(ctx)
		return LoadedMsg{Gen: gen, Seq: seq, Contacts: contacts, Err: err}
	}
}

// HandleLoaded applies a fetch result. Results from another controller or older
// than the latest issued load are dropped, as is anything arriving after Close. A failed fetch leaves the
// current list in place. It reports whether msg was applied.
func (c *Controller) HandleLoaded(msg LoadedMsg) bool {
	if c.closed {
		return false
	}
	if msg.Gen != c.gen {
		c.logger.Debug("discarding contacts from another list", slog.Uint64("gen", msg.Gen))
		return false
	}
	if msg.Seq < c.issued {
		c.logger.Debug("discarding stale contacts",
			slog.Uint64("seq", msg.Seq),
			slog.Uint64("latest", c.issued))
		return false
	}

	c.state = StateReady
	if msg.Err != nil {
		c.lastErr = msg.Err
		c.logger.Error("failed to load contacts",
			slog.Uint64("seq", msg.Seq),
			slog.Any("error", msg.Err))
		return true
	}

	c.lastErr = nil
	c.pager.SetItems(msg.Contacts)
	c.logger.Info("contacts loaded",
		slog.Int("count", len(msg.Contacts)),
		slog.Int("page", c.pager.CurrentPage()),
		slog.Int("total_pages", c.pager.TotalPages()))
	return true
}

// Watch starts listening for change notifications on changes.
func (c *Controller) Watch(changes <-chan struct{}) tea.Cmd {
	c.changes = changes
	return c.waitForChange()
}

func (c *Controller) waitForChange() tea.Cmd {
	if c.closed || c.changes == nil {
		return nil
	}
	gen, ctx, changes := c.gen, c.ctx, c.changes
	return func() tea.Msg {
		select {
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			return ChangedMsg{Gen: gen}
		case <-ctx.Done():
			return nil
		}
	}
}

// OnExternalChange re-arms the watch and reloads the whole list.
func (c *Controller) OnExternalChange() tea.Cmd {
	if c.closed {
		return nil
	}
	c.logger.Debug("contacts changed elsewhere")
	return tea.Batch(c.waitForChange(), c.Load())
}

// Delete removes a contact on the backend. The list is not touched until the
// follow-up reload completes.
func (c *Controller) Delete(id int64) tea.Cmd {
	if c.closed {
		return nil
	}
	gen, ctx, store, timeout := c.gen, c.ctx, c.store, c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return DeletedMsg{Gen: gen, ID: id, Err: store.Delete(ctx, id)}
	}
}

func (c *Controller) HandleDeleted(msg DeletedMsg) tea.Cmd {
	if c.closed || msg.Gen != c.gen {
		return nil
	}
	if msg.Err != nil {
		c.lastErr = msg.Err
		c.logger.Error("failed to delete contact",
			slog.Int64("contact_id", msg.ID),
			slog.Any("error", msg.Err))
		return nil
	}
	c.logger.Info("contact deleted", slog.Int64("contact_id", msg.ID))
	return c.Load()
}

// Update routes the controller's own messages. Other messages return nil.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LoadedMsg:
		c.HandleLoaded(msg)
	case ChangedMsg:
		if msg.Gen != c.gen {
			return nil
		}
		return c.OnExternalChange()
	case DeletedMsg:
		return c.HandleDeleted(msg)
	}
	return nil
}

// Close cancels in-flight requests and stops the watch.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Loading() bool {
	return c.state == StateLoading
}

// LastError is the error from the most recent failed load or delete, cleared by
// the next successful load.
func (c *Controller) LastError() error {
	return c.lastErr
}

func (c *Controller) ClearError() {
	c.lastErr = nil
}

// Generation identifies this controller in the messages its commands produce.
func (c *Controller) Generation() uint64 {
	return c.gen
}

func (c *Controller) Closed() bool {
	return c.closed
}

// Pager exposes the pagination engine for page navigation and rendering.
func (c *Controller) Pager() *pagination.Paginator[models.Contact] {
	return c.pager
}

func (c *Controller) Contacts() []models.Contact {
	return c.pager.Items()
}
