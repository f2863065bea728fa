package screen

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Chizober/Solana-Token-Dashboard/internal/spltoken"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/component"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/router"
	"github.com/Chizober/Solana-Token-Dashboard/internal/ui/style"
	"github.com/Chizober/Solana-Token-Dashboard/internal/workflow"
)

const (
	fieldDecimals    = "decimals"
	fieldAmount      = "amount"
	fieldDestination = "destination"
)

// InputScreen собирает ввод для одного действия и отправляет его дашборду.
type InputScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	action          ui.Action
	defaultDecimals uint8
	form            *component.Form
	helpBar *component.HelpBar
}

// NewInputScreen creates the form for an action
func NewInputScreen(action ui.Action, defaultDecimals uint8) *InputScreen {
	keyMap := ui.DefaultKeyMap()
	form := component.NewForm()

	switch action {
	case ui.ActionCreateToken:
		form.AddField(fieldDecimals, component.FieldTypeNumber, "Decimals (0-255)", false, fmt.Sprintf("%d", defaultDecimals))
		form.SetFieldValidation(fieldDecimals, func(s string) error {
			_, err := workflow.ParseDecimals(s)
			return err
		})
	case ui.ActionTransfer:
		form.AddField(fieldDestination, component.FieldTypeText, "Destination wallet", true, "base58 address")
		form.SetFieldValidation(fieldDestination, func(s string) error {
			_, err := spltoken.ParseWalletAddress(s)
			return err
		})
		addAmountField(form)
	case ui.ActionMint, ui.ActionBurn:
		addAmountField(form)
	}

	return &InputScreen{
		keyMap:          keyMap,
		action:          action,
		defaultDecimals: defaultDecimals,
		form:            form,
		helpBar:         component.NewHelpBar().SetKeyBindings(keyMap.FormHelp()),
	}
}

func addAmountField(form *component.Form) {
	form.AddField(fieldAmount, component.FieldTypeNumber, "Amount", true, "e.g. 100")
	form.SetFieldValidation(fieldAmount, func(s string) error {
		_, err := spltoken.ParseAmount(s)
		return err
	})
}

// Init starts the cursor blink
func (s *InputScreen) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles form input; enter on the last field submits
func (s *InputScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, s.keyMap.Submit) {
		if !s.form.IsLastField() {
			s.form.NextField()
			return s, nil
		}
		if !s.form.Validate() {
			return s, nil
		}
		submit := ui.SubmitMsg{Action: s.action, Input: s.Input()}
		return s, tea.Sequence(router.PopCmd(), func() tea.Msg { return submit })
	}

	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

// Input returns the entered values. Пустые decimals заменяются значением по умолчанию.
func (s *InputScreen) Input() ui.Input {
	decimals := s.form.GetValue(fieldDecimals)
	if decimals == "" && s.action == ui.ActionCreateToken {
		decimals = fmt.Sprintf("%d", s.defaultDecimals)
	}
	return ui.Input{
		Decimals:    decimals,
		Amount:      s.form.GetValue(fieldAmount),
		Destination: s.form.GetValue(fieldDestination),
	}
}

// SetSize sets the screen size
func (s *InputScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	formWidth := width / 2
	if formWidth < 50 {
		formWidth = 50
	}
	s.form.SetWidth(formWidth)
	s.helpBar.SetWidth(width)
}

// View renders the form
func (s *InputScreen) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		style.TitleStyle.Render(s.action.String()),
		s.form.View(),
		style.HintStyle.Render(hint(s.action)),
		s.helpBar.View(),
	)
}

func hint(action ui.Action) string {
	switch action {
	case ui.ActionCreateToken:
		return "Leave empty for the default. Mint authority is the connected wallet."
	case ui.ActionTransfer:
		return "The recipient token account is created if missing."
	case ui.ActionBurn:
		return "Burns from your token account."
	default:
		return "Mints to your token account."
	}
}

var _ router.Screen = (*InputScreen)(nil)
