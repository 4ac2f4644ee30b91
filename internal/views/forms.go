package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"contactapp/cterm/internal/utils"
)

const (
	requestTimeout = 15 * time.Second
	successDelay   = 1500 * time.Millisecond
)

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func newInput(placeholder string, limit int) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = limit
	input.Prompt = "› "
	input.PromptStyle = lipgloss.NewStyle().Foreground(utils.Colours.Blue)
	input.TextStyle = lipgloss.NewStyle().Foreground(utils.Colours.Text)
	return input
}

func newPasswordInput(placeholder string) textinput.Model {
	input := newInput(placeholder, 128)
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

// fieldSet cycles focus through a fixed list of inputs. The index one past the
// last input is the submit button.
type fieldSet struct {
	inputs  []*textinput.Model
	current int
}

func (f *fieldSet) submitFocused() bool {
	return f.current == len(f.inputs)
}

func (f *fieldSet) next() tea.Cmd {
	if f.current < len(f.inputs) {
		f.current++
	}
	return f.focus()
}

func (f *fieldSet) prev() tea.Cmd {
	if f.current > 0 {
		f.current--
	}
	return f.focus()
}

func (f *fieldSet) focus() tea.Cmd {
	var cmd tea.Cmd
	for i, input := range f.inputs {
		if i == f.current {
			cmd = input.Focus()
		} else {
			input.Blur()
		}
	}
	return cmd
}

// update forwards msg to the focused input.
func (f *fieldSet) update(msg tea.Msg) tea.Cmd {
	if f.current >= len(f.inputs) {
		return nil
	}
	var cmd tea.Cmd
	*f.inputs[f.current], cmd = f.inputs[f.current].Update(msg)
	return cmd
}

func renderField(label string, input textinput.Model, focused bool, errMsg string) string {
	box := utils.BlurredBorderStyle
	if focused {
		box = utils.FocusedBorderStyle
	}

	var b strings.Builder
	b.WriteString(utils.LabelStyle.Render(label))
	b.WriteString("\n")
	b.WriteString(box.Width(44).Render(input.View()))
	if errMsg != "" {
		b.WriteString("\n")
		b.WriteString(utils.ErrorStyle.Render("  " + errMsg))
	}
	return b.String()
}

func renderButton(label string, focused bool) string {
	style := lipgloss.NewStyle().
		Foreground(utils.Colours.Text).
		Background(utils.Colours.Surface0).
		Padding(0, 2)
	if focused {
		style = utils.SelectedStyle.Padding(0, 2)
	}
	return style.Render(label)
}

func renderFeedback(errMsg, success string) string {
	switch {
	case success != "":
		return "\n" + utils.SuccessStyle.Render("✓ "+success)
	case errMsg != "":
		return "\n" + utils.ErrorStyle.Render("✗ "+errMsg)
	default:
		return ""
	}
}
