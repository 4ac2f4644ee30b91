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

// ProfileModel edits the user's name and password. The email is shown but
// cannot be changed.
type ProfileModel struct {
	auth     *api.AuthService
	user     models.User
	name     textinput.Model
	password textinput.Model
	fields   fieldSet

	showPassword bool
	fieldErrors  map[string]string
	submitting   bool
	err          string
	success      string
}

type profileUpdatedMsg struct {
	User *models.User
}

type profileUpdateFailedMsg struct {
	Err error
}

func NewProfileModel(auth *api.AuthService) *ProfileModel {
	user := auth.CurrentUser()
	m := &ProfileModel{
		auth:        auth,
		user:        user,
		name:        newInput("Full name", 100),
		password:    newPasswordInput("Leave blank to keep current password"),
		fieldErrors: make(map[string]string),
	}
	m.name.SetValue(user.Name)
	m.fields = fieldSet{inputs: []*textinput.Model{&m.name, &m.password}}
	return m
}

func (m *ProfileModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fields.focus())
}

func (m *ProfileModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting || m.success != "" {
			return nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.fields.next()
		case "shift+tab", "up":
			return m.fields.prev()
		case "ctrl+t":
			m.togglePassword()
			return nil
		case "esc":
			return NavigateTo(ViewDashboard, nil)
		case "enter":
			if m.fields.submitFocused() {
				return m.submit()
			}
			return m.fields.next()
		}

	case profileUpdatedMsg:
		m.submitting = false
		m.user = *msg.User
		m.password.SetValue("")
		m.success = "Profile updated successfully!"
		return navigateAfter(successDelay, ViewDashboard, nil)

	case profileUpdateFailedMsg:
		m.submitting = false
		m.err = api.UserMessage(msg.Err)
		return nil
	}

	return m.fields.update(msg)
}

func (m *ProfileModel) togglePassword() {
	m.showPassword = !m.showPassword
	if m.showPassword {
		m.password.EchoMode = textinput.EchoNormal
	} else {
		m.password.EchoMode = textinput.EchoPassword
	}
}

func (m *ProfileModel) submit() tea.Cmd {
	result := validation.ValidateProfileUpdate(m.name.Value(), m.password.Value())
	m.fieldErrors = result.FieldErrors()
	if first := result.FirstError(); first != nil {
		m.err = first.Message
		return nil
	}

	m.err = ""
	m.submitting = true

	auth := m.auth
	update := models.ProfileUpdate{
		Name:     strings.TrimSpace(m.name.Value()),
		Password: m.password.Value(),
	}
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		user, err := auth.UpdateProfile(ctx, update)
		if err != nil {
			return profileUpdateFailedMsg{Err: err}
		}
		return profileUpdatedMsg{User: user}
	}
}

func (m *ProfileModel) View() string {
	var b strings.Builder

	b.WriteString(utils.TitleStyle.Render("Update Profile"))
	b.WriteString("\n\n")

	b.WriteString(utils.LabelStyle.Render("Email"))
	b.WriteString("\n")
	b.WriteString(utils.BlurredBorderStyle.Width(44).Render(utils.SubtitleStyle.Render(m.user.Email + "  (read-only)")))
	b.WriteString("\n")

	b.WriteString(renderField("Name", m.name, m.fields.current == 0, m.fieldErrors["name"]))
	b.WriteString("\n")
	b.WriteString(renderField("New password", m.password, m.fields.current == 1, m.fieldErrors["password"]))
	visibility := "hidden"
	if m.showPassword {
		visibility = "visible"
	}
	b.WriteString("\n")
	b.WriteString(utils.SubtitleStyle.Render("  Password " + visibility + " (Ctrl+T to toggle)"))
	b.WriteString("\n\n")

	label := "Update"
	if m.submitting {
		label = "Updating..."
	}
	b.WriteString(renderButton(label, m.fields.submitFocused()))
	b.WriteString(renderFeedback(m.err, m.success))
	b.WriteString("\n\n")
	b.WriteString(utils.HelpStyle.Render("[Tab] Next field  [Enter] Submit  [Ctrl+T] Show/hide password  [Esc] Back"))

	return b.String()
}
