package views

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"contactapp/cterm/internal/api"
	"contactapp/cterm/internal/config"
	"contactapp/cterm/internal/contactsync"
	"contactapp/cterm/internal/models"
	"contactapp/cterm/internal/storage"
	"contactapp/cterm/internal/utils"
)

type ViewState int

const (
	ViewLogin ViewState = iota
	ViewRegister
	ViewDashboard
	ViewContactForm
	ViewProfile
)

func (v ViewState) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewDashboard:
		return "dashboard"
	case ViewContactForm:
		return "contact_form"
	case ViewProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// Deps are the services the views talk to.
type Deps struct {
	Auth     *api.AuthService
	Contacts *api.ContactService
	Storage  *storage.Storage
	Config   *config.ClientConfig
	Logger   *slog.Logger
	Now      func() time.Time
}

type AppModel struct {
	deps   Deps
	state  ViewState
	width  int
	height int

	login       *LoginModel
	register    *RegisterModel
	dashboard   *DashboardModel
	contactForm *ContactFormModel
	profile     *ProfileModel

	err error
}

type NavigateMsg struct {
	State ViewState
	Data  interface{}
}

type ErrorMsg struct {
	Err error
}

type LoggedInMsg struct {
	Session *models.Session
}

type LoggedOutMsg struct{}

func NewAppModel(deps Deps) *AppModel {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Config == nil {
		deps.Config = config.GetDefaultConfig()
	}

	return &AppModel{
		deps:  deps,
		state: ViewLogin,
		login: NewLoginModel(deps.Auth, ""),
	}
}

func (m *AppModel) Init() tea.Cmd {
	if m.deps.Auth.IsAuthenticated() {
		m.deps.Logger.Info("resuming saved session", slog.String("email", m.deps.Auth.CurrentUser().Email))
		_, cmd := m.navigateTo(ViewDashboard, nil)
		return cmd
	}
	return m.login.Init()
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.dashboard != nil {
			m.dashboard.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}

	case NavigateMsg:
		return m.navigateTo(msg.State, msg.Data)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case LoggedInMsg:
		m.deps.Logger.Info("session started", slog.String("email", msg.Session.User.Email))
		return m.navigateTo(ViewDashboard, nil)

	case LoggedOutMsg:
		m.closeDashboard()
		m.login = NewLoginModel(m.deps.Auth, "")
		return m.navigateTo(ViewLogin, nil)

	case QuitMsg:
		return m, m.quit()

	case contactsync.LoadedMsg, contactsync.ChangedMsg, contactsync.DeletedMsg, spinner.TickMsg:
		// The dashboard keeps syncing while a form is open.
		if m.dashboard != nil {
			return m, m.dashboard.Update(msg)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case ViewLogin:
		if m.login != nil {
			cmd = m.login.Update(msg)
		}
	case ViewRegister:
		if m.register != nil {
			cmd = m.register.Update(msg)
		}
	case ViewDashboard:
		if m.dashboard != nil {
			cmd = m.dashboard.Update(msg)
		}
	case ViewContactForm:
		if m.contactForm != nil {
			cmd = m.contactForm.Update(msg)
		}
	case ViewProfile:
		if m.profile != nil {
			cmd = m.profile.Update(msg)
		}
	}

	return m, cmd
}

func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content string

	switch m.state {
	case ViewLogin:
		if m.login != nil {
			content = m.login.View()
		}
	case ViewRegister:
		if m.register != nil {
			content = m.register.View()
		}
	case ViewDashboard:
		if m.dashboard != nil {
			content = m.dashboard.View()
		}
	case ViewContactForm:
		if m.contactForm != nil {
			content = m.contactForm.View()
		}
	case ViewProfile:
		if m.profile != nil {
			content = m.profile.View()
		}
	default:
		content = "Unknown view"
	}

	if m.err != nil {
		content += "\n" + utils.ErrorStyle.Padding(1).Render(fmt.Sprintf("Error: %s", api.UserMessage(m.err)))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *AppModel) navigateTo(state ViewState, data interface{}) (tea.Model, tea.Cmd) {
	m.deps.Logger.Debug("navigate", slog.String("from", m.state.String()), slog.String("to", state.String()))
	m.state = state
	m.err = nil

	switch state {
	case ViewLogin:
		email, _ := data.(string)
		if m.login == nil || email != "" {
			m.login = NewLoginModel(m.deps.Auth, email)
		}
		return m, m.login.Init()

	case ViewRegister:
		m.register = NewRegisterModel(m.deps.Auth)
		return m, m.register.Init()

	case ViewDashboard:
		if !m.deps.Auth.IsAuthenticated() {
			m.state = ViewLogin
			m.login = NewLoginModel(m.deps.Auth, "")
			return m, m.login.Init()
		}
		if m.dashboard == nil {
			dashboard, err := NewDashboardModel(m.dashboardDeps())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.dashboard = dashboard
			m.dashboard.SetSize(m.width, m.height)
			return m, m.dashboard.Init()
		}
		m.dashboard.SetUser(m.deps.Auth.CurrentUser())
		if status, ok := data.(string); ok {
			m.dashboard.SetStatus(status)
		}
		return m, nil

	case ViewContactForm:
		contact, _ := data.(*models.Contact)
		m.contactForm = NewContactFormModel(m.deps.Contacts, contact)
		return m, m.contactForm.Init()

	case ViewProfile:
		m.profile = NewProfileModel(m.deps.Auth)
		return m, m.profile.Init()
	}

	return m, nil
}

func (m *AppModel) dashboardDeps() DashboardDeps {
	return DashboardDeps{
		Auth:     m.deps.Auth,
		Contacts: m.deps.Contacts,
		Storage:  m.deps.Storage,
		PageSize: m.deps.Config.PageSize,
		Timeout:  m.deps.Config.Timeout,
		Logger:   m.deps.Logger,
		Now:      m.deps.Now,
	}
}

func (m *AppModel) closeDashboard() {
	if m.dashboard != nil {
		m.dashboard.Close()
		m.dashboard = nil
	}
}

func (m *AppModel) quit() tea.Cmd {
	m.closeDashboard()
	return tea.Quit
}

// State reports the active view.
func (m *AppModel) State() ViewState {
	return m.state
}

// QuitMsg asks the app to shut down cleanly.
type QuitMsg struct{}

func NavigateTo(state ViewState, data interface{}) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{State: state, Data: data}
	}
}

func ShowError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// navigateAfter returns to state once delay has passed, used after success messages.
func navigateAfter(delay time.Duration, state ViewState, data interface{}) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return NavigateMsg{State: state, Data: data}
	})
}
