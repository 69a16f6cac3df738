package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a yes/no dialog defaulting to No.
type ConfirmModel struct {
	prompt   string
	value    bool
	done     bool
	quitting bool
}

func NewConfirm(prompt string) ConfirmModel {
	return ConfirmModel{prompt: prompt}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "y", "Y":
		m.value = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.value = false
		m.done = true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	case "left", "right", "tab", "h", "l":
		m.value = !m.value
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.quitting {
		return ""
	}
	if m.done {
		answer := "No"
		if m.value {
			answer = "Yes"
		}
		return PromptStyle.Render(m.prompt) + " " + MutedStyle.Render(answer)
	}

	yes, no := UnselectedStyle, SelectedStyle
	if m.value {
		yes, no = SelectedStyle, UnselectedStyle
	}

	var b strings.Builder
	b.WriteString(PromptStyle.Render(m.prompt))
	b.WriteString(" ")
	b.WriteString(yes.Render("Yes"))
	b.WriteString(MutedStyle.Render(" / "))
	b.WriteString(no.Render("No"))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("y/n select • ←/→ toggle • enter confirm"))
	return b.String()
}

func (m ConfirmModel) Value() bool {
	return m.value
}

func (m ConfirmModel) Cancelled() bool {
	return m.quitting
}

// Confirmer asks on the terminal, with a bubbletea dialog when stdout is a
// TTY and survey otherwise. It implements admin.Confirmer.
type Confirmer struct{}

func (Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if !IsTTY() {
		var value bool
		if err := survey.AskOne(&survey.Confirm{Message: prompt, Default: false}, &value); err != nil {
			return false, err
		}
		return value, nil
	}

	p := tea.NewProgram(NewConfirm(prompt), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	result, ok := final.(ConfirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type %T", final)
	}
	fmt.Println()
	if result.Cancelled() {
		return false, nil
	}
	return result.Value(), nil
}

// AskCredentials prompts for whichever of email and password are empty.
func AskCredentials(email, password string) (string, string, error) {
	var questions []*survey.Question
	if email == "" {
		questions = append(questions, &survey.Question{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Email:"},
			Validate: survey.Required,
		})
	}
	if password == "" {
		questions = append(questions, &survey.Question{
			Name:     "password",
			Prompt:   &survey.Password{Message: "Password:"},
			Validate: survey.Required,
		})
	}
	if len(questions) == 0 {
		return email, password, nil
	}

	answers := struct {
		Email    string
		Password string
	}{Email: email, Password: password}
	if err := survey.Ask(questions, &answers); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(answers.Email), answers.Password, nil
}
