package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"contactapp/cterm/internal/api"
	"contactapp/cterm/internal/models"
	"contactapp/cterm/internal/utils"
	"contactapp/cterm/internal/validation"
)

type LoginModel struct {
	auth     *api.AuthService
	email    textinput.Model
	password textinput.Model
	fields   fieldSet

	submitting bool
	err        string
	notice     string
}

type loginFailedMsg struct {
	Err error
}

func NewLoginModel(auth *api.AuthService, email string) *LoginModel {
	m := &LoginModel{
		auth:     auth,
		email:    newInput("you@example.com", 100),
		password: newPasswordInput("Password"),
	}
	m.fields = fieldSet{inputs: []*textinput.Model{&m.email, &m.password}}
	if email != "" {
		m.email.SetValue(email)
		m.fields.current = 1
		m.notice = "Registration successful! Please login."
	}
	return m
}

func (m *LoginModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fields.focus())
}

func (m *LoginModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.fields.next()
		case "shift+tab", "up":
			return m.fields.prev()
		case "ctrl+r":
			return NavigateTo(ViewRegister, nil)
		case "esc":
			return func() tea.Msg { return QuitMsg{} }
		case "enter":
			if m.fields.submitFocused() || m.fields.current == len(m.fields.inputs)-1 {
				return m.submit()
			}
			return m.fields.next()
		}

	case loginFailedMsg:
		m.submitting = false
		m.err = loginErrorMessage(msg.Err)
		return nil
	}

	return m.fields.update(msg)
}

func (m *LoginModel) submit() tea.Cmd {
	result := validation.ValidateLogin(m.email.Value(), m.password.Value())
	if first := result.FirstError(); first != nil {
		m.err = first.Message
		return nil
	}

	m.err = ""
	m.notice = ""
	m.submitting = true

	auth := m.auth
	creds := models.Credentials{
		Email:    strings.TrimSpace(m.email.Value()),
		Password: m.password.Value(),
	}
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		session, err := auth.Login(ctx, creds)
		if err != nil {
			return loginFailedMsg{Err: err}
		}
		return LoggedInMsg{Session: session}
	}
}

func loginErrorMessage(err error) string {
	if api.IsType(err, api.ErrUnauthorized) || api.IsType(err, api.ErrForbidden) {
		return "Invalid email or password"
	}
	return api.UserMessage(err)
}

func (m *LoginModel) View() string {
	var b strings.Builder

	b.WriteString(utils.TitleStyle.Render("Contacts"))
	b.WriteString("\n")
	b.WriteString(utils.SubtitleStyle.Render("  Sign in to manage your contacts"))
	b.WriteString("\n\n")

	b.WriteString(renderField("Email", m.email, m.fields.current == 0, ""))
	b.WriteString("\n")
	b.WriteString(renderField("Password", m.password, m.fields.current == 1, ""))
	b.WriteString("\n\n")

	label := "Login"
	if m.submitting {
		label = "Logging in..."
	}
	b.WriteString(renderButton(label, m.fields.submitFocused()))
	b.WriteString("\n")

	if m.notice != "" && m.err == "" {
		b.WriteString("\n" + utils.SuccessStyle.Render(m.notice))
	}
	b.WriteString(renderFeedback(m.err, ""))
	b.WriteString("\n\n")
	b.WriteString(utils.HelpStyle.Render("[Tab] Next field  [Enter] Login  [Ctrl+R] Create account  [Esc] Quit"))

	return b.String()
}
