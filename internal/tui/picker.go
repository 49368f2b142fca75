package tui

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	huh "github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/jakoblorz/slnchain/internal/models"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("selection aborted")

// ProjectPicker asks the user to choose one project.
type ProjectPicker interface {
	PickProject(title string, projects []*models.Project) (*models.Project, error)
}

// HuhPicker prompts with a filterable huh select.
type HuhPicker struct {
	in  io.Reader
	out io.Writer
}

// NewHuhPicker creates a picker reading keys from in and drawing to out.
func NewHuhPicker(in io.Reader, out io.Writer) *HuhPicker {
	return &HuhPicker{in: in, out: out}
}

// PickProject shows every non-folder project and returns the chosen one.
func (p *HuhPicker) PickProject(title string, projects []*models.Project) (*models.Project, error) {
	opts := make([]huh.Option[int], 0, len(projects))
	for i, project := range projects {
		if project.IsFolder() {
			continue
		}
		opts = append(opts, huh.NewOption(project.Name(), i))
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("%w: solution has no projects to choose from", models.ErrProjectNotFound)
	}

	choice := -1

	keyMap := huh.NewDefaultKeyMap()
	keyMap.Select.Submit = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select"))
	keyMap.Select.Filter = key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter"))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Options(opts...).
				Height(12).
				Value(&choice),
		).
			Title(title).
			Description("Type / to filter."),
	).
		WithTheme(NewHuhTheme()).
		WithShowHelp(true).
		WithKeyMap(keyMap).
		WithProgramOptions(tea.WithInput(p.in), tea.WithOutput(p.out))

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrAborted
		}
		return nil, err
	}

	if choice < 0 || choice >= len(projects) {
		return nil, ErrAborted
	}
	return projects[choice], nil
}

// NewHuhTheme returns the base huh theme recoloured with the CLI palette.
func NewHuhTheme() *huh.Theme {
	theme := huh.ThemeBase()
	accent := lipgloss.Color("#7D56F4")

	theme.Focused.Title = theme.Focused.Title.Foreground(accent).Bold(true)
	theme.Focused.SelectSelector = theme.Focused.SelectSelector.Foreground(accent)
	theme.Focused.SelectedOption = theme.Focused.SelectedOption.Foreground(lipgloss.Color("#04B575"))
	theme.Focused.Description = theme.Focused.Description.Foreground(lipgloss.Color("#888888"))

	return theme
}
