package views

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"contactapp/cterm/internal/api"
	"contactapp/cterm/internal/contactsync"
	"contactapp/cterm/internal/models"
	"contactapp/cterm/internal/storage"
	"contactapp/cterm/internal/utils"
)

const pageWindowSize = 5

type DashboardDeps struct {
	Auth     *api.AuthService
	Contacts *api.ContactService
	Storage  *storage.Storage
	PageSize int
	Timeout  time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

type dashboardModal int

const (
	modalNone dashboardModal = iota
	modalDelete
	modalLogout
)

// DashboardModel lists the user's contacts a page at a time. It lives for the
// whole session so the list stays in sync while forms are open.
type DashboardModel struct {
	deps       DashboardDeps
	controller *contactsync.Controller
	spinner    spinner.Model
	user       models.User

	unsubscribe func()

	selected int
	modal    dashboardModal
	pending  *models.Contact
	status   string
	width    int
	height   int
}

type contactsExportedMsg struct {
	Path string
	Err  error
}

type loggedOutFailedMsg struct {
	Err error
}

func NewDashboardModel(deps DashboardDeps) (*DashboardModel, error) {
	if deps.Auth == nil || deps.Contacts == nil {
		return nil, errors.New("dashboard requires auth and contact services")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	controller, err := contactsync.New(deps.Contacts, contactsync.Config{
		PageSize: deps.PageSize,
		Timeout:  deps.Timeout,
	}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact list: %w", err)
	}

	return &DashboardModel{
		deps:       deps,
		controller: controller,
		spinner:    utils.NewSpinner(),
		user:       deps.Auth.CurrentUser(),
	}, nil
}

func (m *DashboardModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.controller.Load(), m.spinner.Tick}
	if feed := m.deps.Contacts.Changes(); feed != nil {
		changes, unsubscribe := feed.Subscribe()
		m.unsubscribe = unsubscribe
		cmds = append(cmds, m.controller.Watch(changes))
	}
	return tea.Batch(cmds...)
}

// Close stops the change watch and cancels outstanding requests.
func (m *DashboardModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.controller.Close()
}

func (m *DashboardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *DashboardModel) SetUser(user models.User) {
	m.user = user
}

func (m *DashboardModel) SetStatus(status string) {
	m.status = status
}

// Controller exposes the list controller backing the dashboard.
func (m *DashboardModel) Controller() *contactsync.Controller {
	return m.controller
}

func (m *DashboardModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case contactsync.LoadedMsg:
		m.controller.HandleLoaded(msg)
		m.clampSelection()
		return nil

	case contactsync.ChangedMsg, contactsync.DeletedMsg:
		return m.controller.Update(msg)

	case contactsExportedMsg:
		if msg.Err != nil {
			m.deps.Logger.Error("failed to export contacts", slog.Any("error", msg.Err))
			m.status = "Export failed: " + msg.Err.Error()
		} else {
			m.deps.Logger.Info("contacts exported", slog.String("path", msg.Path))
			m.status = "Exported to " + msg.Path
		}
		return nil

	case loggedOutFailedMsg:
		m.status = "Logout failed: " + msg.Err.Error()
		return nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.handleModalKey(msg)
		}
		return m.handleKey(msg)
	}
	return nil
}

func (m *DashboardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	pager := m.controller.Pager()

	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < pager.VisibleLen()-1 {
			m.selected++
		}
	case "left", "h":
		if pager.PrevPage() {
			m.selected = 0
		}
	case "right", "l":
		if pager.NextPage() {
			m.selected = 0
		}
	case "home", "g":
		if pager.FirstPage() {
			m.selected = 0
		}
	case "end", "G":
		if pager.LastPage() {
			m.selected = 0
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		page, _ := strconv.Atoi(msg.String())
		if pager.GoToPage(page) {
			m.selected = 0
		}
	case "n", "a":
		return NavigateTo(ViewContactForm, nil)
	case "e", "enter":
		if contact, ok := m.selectedContact(); ok {
			return NavigateTo(ViewContactForm, &contact)
		}
	case "d", "delete":
		if contact, ok := m.selectedContact(); ok && contact.HasID() {
			m.pending = &contact
			m.modal = modalDelete
		}
	case "s":
		return m.cyclePageSize()
	case "r":
		m.controller.ClearError()
		m.status = ""
		return m.controller.Load()
	case "p":
		return NavigateTo(ViewProfile, nil)
	case "x":
		return m.export(utils.FormatJSON)
	case "X":
		return m.export(utils.FormatCSV)
	case "o", "L":
		m.modal = modalLogout
	case "q":
		return func() tea.Msg { return QuitMsg{} }
	}
	return nil
}

func (m *DashboardModel) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		modal := m.modal
		m.modal = modalNone
		switch modal {
		case modalDelete:
			contact := m.pending
			m.pending = nil
			if contact == nil {
				return nil
			}
			m.status = "Deleting " + contact.Name + "..."
			return m.controller.Delete(contact.IDValue())
		case modalLogout:
			return m.logout()
		}
	case "n", "N", "esc":
		m.modal = modalNone
		m.pending = nil
	}
	return nil
}

func (m *DashboardModel) selectedContact() (models.Contact, bool) {
	visible := m.controller.Pager().Visible()
	if m.selected < 0 || m.selected >= len(visible) {
		return models.Contact{}, false
	}
	return visible[m.selected], true
}

func (m *DashboardModel) clampSelection() {
	n := m.controller.Pager().VisibleLen()
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *DashboardModel) cyclePageSize() tea.Cmd {
	size := m.controller.Pager().CyclePageSize()
	m.selected = 0
	m.status = fmt.Sprintf("Showing %d per page", size)

	if m.deps.Storage == nil {
		return nil
	}
	prefs, err := m.deps.Storage.LoadPreferences()
	if err != nil {
		m.deps.Logger.Warn("failed to load preferences", slog.Any("error", err))
		prefs = storage.DefaultPreferences()
	}
	prefs.PageSize = size
	if err := m.deps.Storage.SavePreferences(prefs); err != nil {
		m.deps.Logger.Warn("failed to save preferences", slog.Any("error", err))
	}
	return nil
}

func (m *DashboardModel) export(format utils.ExportFormat) tea.Cmd {
	if m.deps.Storage == nil {
		m.status = "Export unavailable"
		return nil
	}
	contacts := m.controller.Contacts()
	path := filepath.Join(m.deps.Storage.DataDir(), utils.GenerateExportFilename(format, m.deps.Now()))
	svc := m.deps.Contacts
	return func() tea.Msg {
		if err := utils.ExportContacts(contacts, format, path); err != nil {
			return contactsExportedMsg{Path: path, Err: err}
		}
		svc.RecordExport(path, len(contacts))
		return contactsExportedMsg{Path: path}
	}
}

func (m *DashboardModel) logout() tea.Cmd {
	auth := m.deps.Auth
	return func() tea.Msg {
		if err := auth.Logout(); err != nil {
			return loggedOutFailedMsg{Err: err}
		}
		return LoggedOutMsg{}
	}
}

func (m *DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.modal {
	case modalDelete:
		b.WriteString(m.renderConfirm(fmt.Sprintf("Delete %s?", m.pending.Name)))
		return b.String()
	case modalLogout:
		b.WriteString(m.renderConfirm("Are you sure you want to logout?"))
		return b.String()
	}

	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	if err := m.controller.LastError(); err != nil {
		b.WriteString("\n")
		b.WriteString(utils.ErrorStyle.Render("✗ " + api.UserMessage(err)))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(utils.SubtitleStyle.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(utils.HelpStyle.Render("[↑↓] Select  [←→] Page  [n] New  [e] Edit  [d] Delete  [s] Page size  [r] Refresh"))
	b.WriteString("\n")
	b.WriteString(utils.HelpStyle.Render("[x/X] Export JSON/CSV  [p] Profile  [o] Logout  [q] Quit"))

	return b.String()
}

func (m *DashboardModel) renderHeader() string {
	name := m.user.DisplayName()
	avatar := utils.AvatarStyle.Render(m.user.Initial())
	greeting := utils.TitleStyle.Render(fmt.Sprintf("%s, %s", utils.GreetingAt(m.deps.Now()), name))

	line := lipgloss.JoinHorizontal(lipgloss.Center, avatar, " ", greeting)
	if m.controller.Loading() {
		line = lipgloss.JoinHorizontal(lipgloss.Center, line, "  ", m.spinner.View(), utils.SubtitleStyle.Render(" Loading contacts..."))
	}
	return line
}

func (m *DashboardModel) columnWidths() (int, int, int) {
	width := m.width
	if width <= 0 {
		width = 80
	}
	name := width / 4
	if name < 14 {
		name = 14
	}
	email := width / 3
	if email < 20 {
		email = 20
	}
	return name, email, 18
}

func (m *DashboardModel) renderTable() string {
	pager := m.controller.Pager()
	nameW, emailW, phoneW := m.columnWidths()

	var b strings.Builder
	header := "  " + utils.FitColumn("Name", nameW) + "  " + utils.FitColumn("Email", emailW) + "  " + utils.FitColumn("Phone", phoneW)
	b.WriteString(utils.HeaderStyle.Render(header))
	b.WriteString("\n")

	visible := pager.Visible()
	if len(visible) == 0 {
		if m.controller.Loading() {
			b.WriteString(utils.SubtitleStyle.Render("  Fetching contacts..."))
		} else {
			b.WriteString(utils.SubtitleStyle.Render("  No contacts yet. Press n to add one."))
		}
		b.WriteString("\n")
		return b.String()
	}

	for i, contact := range visible {
		row := utils.FitColumn(contact.Name, nameW) + "  " + utils.FitColumn(contact.Email, emailW) + "  " + utils.FitColumn(contact.Phone, phoneW)
		if i == m.selected {
			b.WriteString(utils.SelectedStyle.Render("› " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *DashboardModel) renderFooter() string {
	pager := m.controller.Pager()
	start, end := pager.DisplayRange()

	var pages []string
	if pager.HasPrevPage() {
		pages = append(pages, utils.PageStyle.Render("‹"))
	}
	for _, page := range pager.PageWindow(pageWindowSize) {
		label := strconv.Itoa(page)
		if page == pager.CurrentPage() {
			pages = append(pages, utils.CurrentPageStyle.Render(label))
		} else {
			pages = append(pages, utils.PageStyle.Render(label))
		}
	}
	if pager.HasNextPage() {
		pages = append(pages, utils.PageStyle.Render("›"))
	}

	info := utils.SubtitleStyle.Render(fmt.Sprintf("%s  ·  %s  ·  %d per page",
		utils.FormatShowing(start, end, pager.Len()),
		utils.FormatPageIndicator(pager.CurrentPage(), pager.TotalPages()),
		pager.PageSize()))

	if len(pages) == 0 {
		return info
	}
	return info + "\n" + strings.Join(pages, " ")
}

func (m *DashboardModel) renderConfirm(question string) string {
	body := utils.WarningStyle.Render(question) + "\n\n" + utils.HelpStyle.Render("[y] Yes  [n] No")
	return utils.ModalStyle.Render(body)
}
