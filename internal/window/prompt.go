package window

import (
	"image/color"
	"unicode"
	"unicode/utf8"

	"github.com/gogpu/gg"
	"golang.org/x/mobile/event/key"

	"github.com/Iron-Ham/screencoord/internal/overlay"
)

const (
	promptWidth   = 480
	promptHeight  = 150
	promptPadding = 20
	promptMaxLen  = 200
)

var (
	promptShade  = color.NRGBA{A: 120}
	promptBox    = color.NRGBA{R: 40, G: 40, B: 48, A: 240}
	promptBorder = color.NRGBA{R: 0, G: 255, B: 255, A: 255}
	promptField  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	promptInk    = color.NRGBA{A: 255}
	promptLight  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// promptState is the text entry shown by PromptText.
type promptState struct {
	title string
	label string
	text  []rune
}

type promptResult int

const (
	promptEditing promptResult = iota
	promptAccepted
	promptCanceled
)

func newPrompt(title, label, initial string) *promptState {
	return &promptState{title: title, label: label, text: []rune(initial)}
}

// Text returns the current input.
func (p *promptState) Text() string { return string(p.text) }

// apply feeds one key event to the prompt. Presses and auto-repeats edit the
// text; releases are ignored.
func (p *promptState) apply(e key.Event) promptResult {
	if e.Direction == key.DirRelease {
		return promptEditing
	}
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		if e.Direction == key.DirPress {
			return promptAccepted
		}
	case key.CodeEscape:
		if e.Direction == key.DirPress {
			return promptCanceled
		}
	case key.CodeDeleteBackspace:
		if len(p.text) > 0 {
			p.text = p.text[:len(p.text)-1]
		}
	default:
		if e.Rune > 0 && e.Rune != utf8.RuneError && unicode.IsPrint(e.Rune) &&
			e.Modifiers&(key.ModControl|key.ModMeta) == 0 && len(p.text) < promptMaxLen {
			p.text = append(p.text, e.Rune)
		}
	}
	return promptEditing
}

// draw paints the prompt box centred over whatever is already on dc.
func (p *promptState) draw(dc *gg.Context, fonts *overlay.Fonts) error {
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetColor(promptShade)
	dc.DrawRectangle(0, 0, w, h)
	keep(dc.Fill())

	x := (w - promptWidth) / 2
	y := (h - promptHeight) / 2
	dc.SetColor(promptBox)
	dc.DrawRoundedRectangle(x, y, promptWidth, promptHeight, 8)
	keep(dc.FillPreserve())
	dc.SetColor(promptBorder)
	dc.SetLineWidth(2)
	keep(dc.Stroke())

	dc.SetFont(fonts.Title)
	dc.SetColor(promptBorder)
	dc.DrawString(p.title, x+promptPadding, y+promptPadding+fonts.Title.Metrics().Ascent)

	dc.SetFont(fonts.Label)
	dc.SetColor(promptLight)
	labelY := y + 60
	dc.DrawString(p.label, x+promptPadding, labelY)

	fieldY := labelY + 12
	fieldW := float64(promptWidth - 2*promptPadding)
	const fieldH = 36
	dc.SetColor(promptField)
	dc.DrawRectangle(x+promptPadding, fieldY, fieldW, fieldH)
	keep(dc.Fill())

	// Show the tail of long input so the caret stays visible.
	text := p.Text()
	for len(text) > 0 {
		tw, _ := dc.MeasureString(text)
		if tw <= fieldW-20 {
			break
		}
		_, size := utf8.DecodeRuneInString(text)
		text = text[size:]
	}
	baseline := fieldY + fieldH/2 + fonts.Label.Metrics().Ascent/2
	dc.SetColor(promptInk)
	dc.DrawString(text, x+promptPadding+8, baseline)

	tw, _ := dc.MeasureString(text)
	caretX := x + promptPadding + 8 + tw + 1
	dc.SetLineWidth(1.5)
	dc.DrawLine(caretX, fieldY+7, caretX, fieldY+fieldH-7)
	keep(dc.Stroke())

	dc.SetFont(fonts.Footer)
	dc.SetColor(promptLight)
	dc.DrawString("Enter to confirm, Esc to cancel", x+promptPadding, y+promptHeight-14)

	return firstErr
}
