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

type RegisterModel struct {
	auth     *api.AuthService
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	fields   fieldSet

	fieldErrors map[string]string
	submitting  bool
	err         string
}

type registeredMsg struct {
	Email string
}

type registerFailedMsg struct {
	Err error
}

func NewRegisterModel(auth *api.AuthService) *RegisterModel {
	m := &RegisterModel{
		auth:        auth,
		name:        newInput("Full name", 100),
		email:       newInput("you@example.com", 100),
		password:    newPasswordInput("Password"),
		fieldErrors: make(map[string]string),
	}
	m.fields = fieldSet{inputs: []*textinput.Model{&m.name, &m.email, &m.password}}
	return m
}

func (m *RegisterModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fields.focus())
}

func (m *RegisterModel) Update(msg tea.Msg) tea.Cmd {
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
		case "esc":
			return NavigateTo(ViewLogin, nil)
		case "enter":
			if m.fields.submitFocused() {
				return m.submit()
			}
			return m.fields.next()
		}

	case registeredMsg:
		m.submitting = false
		return NavigateTo(ViewLogin, msg.Email)

	case registerFailedMsg:
		m.submitting = false
		m.err = registerErrorMessage(msg.Err)
		return nil
	}

	return m.fields.update(msg)
}

func (m *RegisterModel) submit() tea.Cmd {
	result := validation.ValidateRegistration(m.name.Value(), m.email.Value(), m.password.Value())
	m.fieldErrors = result.FieldErrors()
	if !result.IsValid {
		m.err = ""
		return nil
	}

	m.err = ""
	m.submitting = true

	auth := m.auth
	reg := models.Registration{
		Name:     strings.TrimSpace(m.name.Value()),
		Email:    strings.TrimSpace(m.email.Value()),
		Password: m.password.Value(),
	}
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		if _, err := auth.Register(ctx, reg); err != nil {
			return registerFailedMsg{Err: err}
		}
		return registeredMsg{Email: reg.Email}
	}
}

func registerErrorMessage(err error) string {
	switch {
	case api.IsType(err, api.ErrBadRequest), api.IsType(err, api.ErrConflict):
		return "User already exists or invalid data"
	case api.IsType(err, api.ErrNetworkConnection), api.IsType(err, api.ErrTimeout):
		return api.UserMessage(err)
	default:
		return "Server error. Please try again later."
	}
}

func (m *RegisterModel) View() string {
	var b strings.Builder

	b.WriteString(utils.TitleStyle.Render("Create Account"))
	b.WriteString("\n\n")

	b.WriteString(renderField("Name", m.name, m.fields.current == 0, m.fieldErrors["name"]))
	b.WriteString("\n")
	b.WriteString(renderField("Email", m.email, m.fields.current == 1, m.fieldErrors["email"]))
	b.WriteString("\n")
	b.WriteString(renderField("Password", m.password, m.fields.current == 2, m.fieldErrors["password"]))
	if pw := m.password.Value(); pw != "" {
		b.WriteString("\n")
		b.WriteString(utils.SubtitleStyle.Render("  Strength: " + utils.RatePassword(pw).String()))
	}
	b.WriteString("\n\n")

	label := "Register"
	if m.submitting {
		label = "Registering..."
	}
	b.WriteString(renderButton(label, m.fields.submitFocused()))
	b.WriteString(renderFeedback(m.err, ""))
	b.WriteString("\n\n")
	b.WriteString(utils.HelpStyle.Render("[Tab] Next field  [Enter] Submit  [Esc] Back to login"))

	return b.String()
}
