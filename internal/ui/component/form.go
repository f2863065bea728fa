package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/style"
)

// FieldType represents the type of form field
type FieldType int

const (
	FieldTypeText FieldType = iota
	FieldTypeNumber
)

// FormField represents a single form field
type FormField struct {
	Name        string
	Label       string
	Type        FieldType
	Placeholder string
	Required    bool
	Validation  func(string) error
	Error       string

	textInput textinput.Model
}

// Form represents a form component with multiple text fields
type Form struct {
	fields     []*FormField
	focusIndex int
	width      int

	labelStyle   lipgloss.Style
	inputStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewForm creates a new form component
func NewForm() *Form {
	return &Form{
		width:        60,
		labelStyle:   style.LabelStyle,
		inputStyle:   style.InputStyle,
		focusedStyle: style.FocusedInputStyle,
		errorStyle:   lipgloss.NewStyle().Foreground(style.DefaultPalette().Error),
	}
}

// AddField adds a field to the form
func (f *Form) AddField(name string, fieldType FieldType, label string, required bool, placeholder string) *Form {
	ti := textinput.New()
	ti.Width = 46
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 64
	if fieldType == FieldTypeNumber {
		ti.CharLimit = 40
		if placeholder == "" {
			ti.Placeholder = "0"
		}
	}

	field := &FormField{
		Name:        name,
		Label:       label,
		Type:        fieldType,
		Placeholder: placeholder,
		Required:    required,
		textInput:   ti,
	}
	f.fields = append(f.fields, field)

	if len(f.fields) == 1 {
		f.fields[0].textInput.Focus()
	}
	return f
}

// SetFieldValue sets the value of a field
func (f *Form) SetFieldValue(name, value string) *Form {
	if field := f.field(name); field != nil {
		field.textInput.SetValue(value)
	}
	return f
}

// SetFieldValidation sets a validation function for a field
func (f *Form) SetFieldValidation(name string, validation func(string) error) *Form {
	if field := f.field(name); field != nil {
		field.Validation = validation
	}
	return f
}

// SetWidth sets the form width
func (f *Form) SetWidth(width int) *Form {
	f.width = width
	inputWidth := width - 6
	if inputWidth > 10 {
		for _, field := range f.fields {
			field.textInput.Width = inputWidth
		}
	}
	return f
}

// GetValue returns the trimmed value of a field
func (f *Form) GetValue(name string) string {
	if field := f.field(name); field != nil {
		return strings.TrimSpace(field.textInput.Value())
	}
	return ""
}

// Focused returns the index of the focused field
func (f *Form) Focused() int {
	return f.focusIndex
}

// IsLastField reports whether the last field has focus
func (f *Form) IsLastField() bool {
	return f.focusIndex == len(f.fields)-1
}

// Validate проверяет обязательные поля и пользовательские валидаторы.
// Возвращает false и фокусирует первое поле с ошибкой.
func (f *Form) Validate() bool {
	first := -1
	for i, field := range f.fields {
		field.Error = ""
		value := strings.TrimSpace(field.textInput.Value())
		switch {
		case field.Required && value == "":
			field.Error = fmt.Sprintf("%s is required", field.Label)
		case field.Validation != nil && value != "":
			if err := field.Validation(value); err != nil {
				field.Error = err.Error()
			}
		}
		if field.Error != "" && first < 0 {
			first = i
		}
	}
	if first >= 0 {
		f.focus(first)
		return false
	}
	return true
}

// Update handles form input and updates
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			f.focus((f.focusIndex + 1) % len(f.fields))
			return f, nil
		case "shift+tab", "up":
			f.focus((f.focusIndex - 1 + len(f.fields)) % len(f.fields))
			return f, nil
		}
	}

	field := f.fields[f.focusIndex]
	var cmd tea.Cmd
	field.textInput, cmd = field.textInput.Update(msg)
	field.Error = ""
	return f, cmd
}

// NextField moves focus to the next field
func (f *Form) NextField() {
	if len(f.fields) > 0 {
		f.focus((f.focusIndex + 1) % len(f.fields))
	}
}

func (f *Form) focus(index int) {
	f.fields[f.focusIndex].textInput.Blur()
	f.focusIndex = index
	f.fields[f.focusIndex].textInput.Focus()
}

func (f *Form) field(name string) *FormField {
	for _, field := range f.fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// View renders the form
func (f *Form) View() string {
	if len(f.fields) == 0 {
		return "No fields defined"
	}

	var content strings.Builder
	for i, field := range f.fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		content.WriteString(f.labelStyle.Render(label))
		content.WriteString("\n")

		fieldStyle := f.inputStyle
		if i == f.focusIndex {
			fieldStyle = f.focusedStyle
		}
		content.WriteString(fieldStyle.Render(field.textInput.View()))
		content.WriteString("\n")

		if field.Error != "" {
			content.WriteString(f.errorStyle.Render(field.Error))
			content.WriteString("\n")
		}
	}
	return content.String()
}
