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

// ContactFormModel adds a new contact, or edits one when constructed with an
// existing contact.
type ContactFormModel struct {
	contacts *api.ContactService
	editID   *int64

	name   textinput.Model
	email  textinput.Model
	phone  textinput.Model
	fields fieldSet

	fieldErrors map[string]string
	submitting  bool
	err         string
	success     string
}

type contactSavedMsg struct {
	Contact *models.Contact
	Edited  bool
}

type contactSaveFailedMsg struct {
	Err error
}

func NewContactFormModel(contacts *api.ContactService, existing *models.Contact) *ContactFormModel {
	m := &ContactFormModel{
		contacts:    contacts,
		name:        newInput("Contact name", 100),
		email:       newInput("name@example.com", 100),
		phone:       newInput("(123) 456-7890", 30),
		fieldErrors: make(map[string]string),
	}
	m.fields = fieldSet{inputs: []*textinput.Model{&m.name, &m.email, &m.phone}}

	if existing != nil {
		if existing.HasID() {
			id := existing.IDValue()
			m.editID = &id
		}
		m.name.SetValue(existing.Name)
		m.email.SetValue(existing.Email)
		m.phone.SetValue(existing.Phone)
	}
	return m
}

func (m *ContactFormModel) Editing() bool {
	return m.editID != nil
}

func (m *ContactFormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fields.focus())
}

func (m *ContactFormModel) Update(msg tea.Msg) tea.Cmd {
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
		case "esc":
			return NavigateTo(ViewDashboard, nil)
		case "ctrl+s":
			return m.submit()
		case "enter":
			if m.fields.submitFocused() {
				return m.submit()
			}
			return m.fields.next()
		}

	case contactSavedMsg:
		m.submitting = false
		if msg.Edited {
			m.success = "Contact updated successfully!"
		} else {
			m.success = "Contact added successfully!"
		}
		return navigateAfter(successDelay, ViewDashboard, nil)

	case contactSaveFailedMsg:
		m.submitting = false
		m.err = contactErrorMessage(msg.Err)
		return nil
	}

	cmd := m.fields.update(msg)
	if len(m.fieldErrors) > 0 {
		m.validate()
	}
	return cmd
}

func (m *ContactFormModel) validate() validation.ValidationResult {
	result := validation.ValidateContact(m.name.Value(), m.email.Value(), m.phone.Value())
	m.fieldErrors = result.FieldErrors()
	return result
}

func (m *ContactFormModel) submit() tea.Cmd {
	result := m.validate()
	if first := result.FirstError(); first != nil {
		m.err = first.Message
		return nil
	}

	m.err = ""
	m.submitting = true

	svc := m.contacts
	contact := *models.NewContact(m.name.Value(), m.email.Value(), m.phone.Value())
	editID := m.editID

	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		if editID != nil {
			updated, err := svc.Update(ctx, *editID, contact)
			if err != nil {
				return contactSaveFailedMsg{Err: err}
			}
			return contactSavedMsg{Contact: updated, Edited: true}
		}

		created, err := svc.Add(ctx, contact)
		if err != nil {
			return contactSaveFailedMsg{Err: err}
		}
		return contactSavedMsg{Contact: created}
	}
}

func contactErrorMessage(err error) string {
	if api.IsType(err, api.ErrNotFound) {
		return "This contact no longer exists."
	}
	return api.UserMessage(err)
}

func (m *ContactFormModel) View() string {
	var b strings.Builder

	title := "Add Contact"
	if m.Editing() {
		title = "Edit Contact"
	}
	b.WriteString(utils.TitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(renderField("Name", m.name, m.fields.current == 0, m.fieldErrors["name"]))
	b.WriteString("\n")
	b.WriteString(renderField("Email", m.email, m.fields.current == 1, m.fieldErrors["email"]))
	b.WriteString("\n")
	b.WriteString(renderField("Phone", m.phone, m.fields.current == 2, m.fieldErrors["phone"]))
	b.WriteString("\n\n")

	label := "Save"
	if m.submitting {
		label = "Saving..."
	}
	b.WriteString(renderButton(label, m.fields.submitFocused()))
	b.WriteString(renderFeedback(m.err, m.success))
	b.WriteString("\n\n")
	b.WriteString(utils.HelpStyle.Render("[Tab] Next field  [Ctrl+S] Save  [Esc] Cancel"))

	return b.String()
}
