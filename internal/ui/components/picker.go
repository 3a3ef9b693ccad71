package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/triviaz/internal/ui/theme"
)

// PickerOption is one value of a Picker.
type PickerOption struct {
	Label string
	Value string
}

// Picker cycles through a fixed option list with left/right.
type Picker struct {
	Label    string
	Options  []PickerOption
	Selected int
	Focused  bool
}

// NewPicker creates a picker positioned on the option whose value is initial,
// or the first option.
func NewPicker(label string, options []PickerOption, initial string) Picker {
	p := Picker{Label: label, Options: options}
	for i, o := range options {
		if o.Value == initial {
			p.Selected = i
			break
		}
	}
	return p
}

// Update handles left/right cycling when focused.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if !p.Focused || len(p.Options) == 0 {
		return p, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch kmsg.String() {
	case "left", "h":
		p.Selected = (p.Selected - 1 + len(p.Options)) % len(p.Options)
	case "right", "l":
		p.Selected = (p.Selected + 1) % len(p.Options)
	}
	return p, nil
}

// Value returns the selected value, or "" when empty.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected].Value
}

// SelectedLabel returns the selected label, or "" when empty.
func (p Picker) SelectedLabel() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected].Label
}

// View renders "Label  ◂ value ▸".
func (p Picker) View() string {
	labelStyle := theme.Muted
	valueStyle := theme.Unselected
	if p.Focused {
		labelStyle = theme.Selected
		valueStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	}

	value := p.SelectedLabel()
	if value == "" {
		value = "(none)"
	}
	arrows := "  %s  "
	if p.Focused && len(p.Options) > 1 {
		arrows = "◂ %s ▸"
	}
	return labelStyle.Render(fmt.Sprintf("%-12s", p.Label)) + valueStyle.Render(fmt.Sprintf(arrows, value))
}
