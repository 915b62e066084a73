package overlay

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/Iron-Ham/screencoord/internal/geom"
	"github.com/Iron-Ham/screencoord/internal/item"
)

// Layout constants in surface pixels.
const (
	markerRadius   = 10.0
	labelGap       = 10.0
	labelPadding   = 15.0
	segmentLift    = 20.0
	hudMargin      = 20.0
	helpWidth      = 900.0
	helpHeight     = 480.0
	helpRowHeight  = 30.0
	helpDescColumn = 350.0
	bannerY        = 50.0
	hintBottom     = 50.0
	noteSpacing    = 5.0
)

var (
	colorMarker     = color.NRGBA{255, 140, 0, 255}
	colorSelected   = color.NRGBA{0, 255, 255, 255}
	colorOutline    = color.NRGBA{0, 0, 0, 255}
	colorLabel      = color.NRGBA{255, 255, 255, 255}
	colorRulerDash  = color.NRGBA{255, 255, 0, 255}
	colorRulerDot   = color.NRGBA{255, 0, 0, 255}
	colorHUD        = color.NRGBA{0, 255, 0, 255}
	colorHUDFill    = color.NRGBA{0, 0, 0, 180}
	colorPanelFill  = color.NRGBA{0, 0, 0, 230}
	colorPanelEdge  = color.NRGBA{100, 100, 100, 255}
	colorCommand    = color.NRGBA{255, 255, 100, 255}
	colorDesc       = color.NRGBA{240, 240, 240, 255}
	colorFooter     = color.NRGBA{150, 150, 150, 255}
	colorHintFill   = color.NRGBA{0, 0, 0, 150}
	colorHintText   = color.NRGBA{200, 200, 200, 255}
	colorNoteFill   = color.NRGBA{50, 50, 150, 200}
	colorBackground = color.NRGBA{24, 24, 28, 255}
	colorDim        = color.NRGBA{0, 0, 0, 40}
)

type helpRow struct {
	keys, action string
}

var helpCommands = []helpRow{
	{"Left Click", "Capture Coordinate"},
	{"Right Click", "Start/End Ruler Measurement"},
	{"Shift + Mouse", "Free-form Ruler (No Snap)"},
	{"E", "Toggle Edit Mode"},
	{"Space", "Cycle Coordinate Display Corner"},
	{"H", "Toggle this Help"},
	{"Q / Esc", "Quit Capture Mode"},
}

var helpEditCommands = []helpRow{
	{"Click Item", "Select (Edit Mode)"},
	{"Del", "Delete Selected"},
	{"R", "Rename Selected"},
}

// Renderer draws a FrameState onto a gg context.
type Renderer struct {
	fonts    *Fonts
	backdrop *gg.ImageBuf
}

// NewRenderer returns a renderer that draws with fonts.
func NewRenderer(fonts *Fonts) *Renderer {
	return &Renderer{fonts: fonts}
}

// SetBackdrop sets an image drawn beneath every frame, typically a capture of
// the desktop taken before the overlay opened. A nil image clears it.
func (r *Renderer) SetBackdrop(img image.Image) {
	if img == nil {
		r.backdrop = nil
		return
	}
	r.backdrop = gg.ImageBufFromImage(img)
}

// Render draws one frame. It never mutates fs.
func (r *Renderer) Render(dc *gg.Context, fs FrameState) error {
	p := &painter{dc: dc, w: float64(dc.Width()), h: float64(dc.Height())}

	r.drawBackground(p)
	if fs.Mode == ModeEdit {
		r.drawEditMarkers(p, fs)
	}
	if fs.Mode == ModeRuler && fs.HasAnchor {
		r.drawRuler(p, fs)
	}
	r.drawHUD(p, fs)
	if fs.HelpVisible {
		r.drawHelp(p)
	} else {
		r.drawHelpHint(p)
	}
	r.drawNotifications(p, fs)
	if fs.Mode == ModeEdit {
		p.labelBox(r.fonts.Label, "-- EDIT MODE --", p.w/2, bannerY, colorSelected, 200)
	}
	return p.err
}

func (r *Renderer) drawBackground(p *painter) {
	if r.backdrop != nil {
		p.dc.DrawImage(r.backdrop, 0, 0)
		p.rect(0, 0, p.w, p.h, colorDim)
		return
	}
	p.rect(0, 0, p.w, p.h, colorBackground)
}

func (r *Renderer) drawEditMarkers(p *painter, fs FrameState) {
	for i, e := range fs.Entries {
		it := e.Item
		outline, outlineWidth := colorOutline, 3.0
		if i == fs.Selected {
			outline, outlineWidth = colorSelected, 4.0
		}

		switch it.Kind {
		case item.KindCoordinate:
			x, y := float64(it.X), float64(it.Y)
			p.dot(x, y, markerRadius, colorMarker, outline, outlineWidth)

			label := e.label()
			tw := p.measure(r.fonts.Label, label)
			p.labelBox(r.fonts.Label, label, pointLabelCenterX(it.X, tw, p.w), y, colorLabel, 160)

		case item.KindMeasurement:
			a, b := it.Segment()
			line := colorMarker
			if i == fs.Selected {
				line = colorSelected
			}
			p.line(a, b, 6, colorOutline)
			p.line(a, b, 4, line)
			p.dot(float64(a.X), float64(a.Y), markerRadius, colorMarker, outline, outlineWidth)
			p.dot(float64(b.X), float64(b.Y), markerRadius, colorMarker, outline, outlineWidth)

			mx, my := geom.Mid(a, b)
			label := e.label()
			p.labelBox(r.fonts.Label, label, mx, my-segmentLift, colorLabel, 160)

		case item.KindFolder:
			// Folders are never session entries.
		}
	}
}

func (r *Renderer) drawRuler(p *painter, fs FrameState) {
	start := fs.Anchor
	end := fs.RulerEnd()

	p.line(start, end, 4, colorOutline)
	p.dot(float64(start.X), float64(start.Y), 5, colorOutline, nil, 0)
	p.dot(float64(end.X), float64(end.Y), 5, colorOutline, nil, 0)

	p.dc.SetDash(8, 4)
	p.line(start, end, 2, colorRulerDash)
	p.dc.ClearDash()

	p.dot(float64(start.X), float64(start.Y), 4, colorRulerDot, nil, 0)
	p.dot(float64(end.X), float64(end.Y), 4, colorRulerDot, nil, 0)

	mx, my := geom.Mid(start, end)
	label := fmt.Sprintf("%dpx", item.Pixels(geom.Distance(start, end)))
	p.labelBox(r.fonts.Label, label, mx, my-segmentLift, colorLabel, 160)
}

// HUDText formats the live cursor readout.
func HUDText(c geom.Point) string {
	return fmt.Sprintf("X: %04d  Y: %04d", c.X, c.Y)
}

func (r *Renderer) drawHUD(p *painter, fs FrameState) {
	label := HUDText(fs.Cursor)
	tw := p.measure(r.fonts.HUD, label)
	w := tw + 20
	h := r.fonts.HUD.Metrics().LineHeight() + 10
	x, y := hudOrigin(fs.Corner, w, h, p.w, p.h)

	p.dc.DrawRoundedRectangle(x, y, w, h, 5)
	p.setColor(colorHUDFill)
	p.fillPreserve()
	p.dc.SetLineWidth(2)
	p.setColor(colorHUD)
	p.stroke()

	p.text(r.fonts.HUD, label, x+10, y+h-10-r.fonts.HUD.Metrics().Descent, colorHUD)
}

func (r *Renderer) drawHelp(p *painter) {
	x := (p.w - helpWidth) / 2
	y := (p.h - helpHeight) / 3

	p.dc.DrawRoundedRectangle(x, y, helpWidth, helpHeight, 10)
	p.setColor(colorPanelFill)
	p.fillPreserve()
	p.dc.SetLineWidth(1)
	p.setColor(colorPanelEdge)
	p.stroke()

	p.centered(r.fonts.Title, "CONTROLS", x, y+20, helpWidth, 40, colorHUD)

	rowY := y + 80
	for _, row := range helpCommands {
		p.text(r.fonts.Mono, row.keys, x+50, rowY, colorCommand)
		p.text(r.fonts.Mono, row.action, x+helpDescColumn, rowY, colorDesc)
		rowY += helpRowHeight
	}

	rowY += 10
	p.text(r.fonts.Mono, "--- Edit Mode Controls ---", x+50, rowY, colorSelected)
	rowY += helpRowHeight
	for _, row := range helpEditCommands {
		p.text(r.fonts.Mono, row.keys, x+50, rowY, colorSelected)
		p.text(r.fonts.Mono, row.action, x+helpDescColumn, rowY, colorDesc)
		rowY += helpRowHeight
	}

	p.centered(r.fonts.Footer, "Press H to hide this menu", x, y+helpHeight-30, helpWidth, 30, colorFooter)
}

func (r *Renderer) drawHelpHint(p *painter) {
	const hint = "Press H for Help"
	w := p.measure(r.fonts.Hint, hint) + 20
	h := r.fonts.Hint.Metrics().LineHeight() + 10
	x := (p.w - w) / 2
	y := p.h - hintBottom

	p.dc.DrawRoundedRectangle(x, y, w, h, 5)
	p.setColor(colorHintFill)
	p.fill()
	p.centered(r.fonts.Hint, hint, x, y, w, h, colorHintText)
}

func (r *Renderer) drawNotifications(p *painter, fs FrameState) {
	if len(fs.Notifications) == 0 {
		return
	}
	h := r.fonts.Notification.Metrics().LineHeight() + 10
	top := notificationTop(fs.Corner)

	for i, n := range fs.Notifications {
		w := p.measure(r.fonts.Notification, n.Text) + 20
		x := (p.w - w) / 2
		y := top + float64(i)*(h+noteSpacing)

		p.dc.DrawRoundedRectangle(x, y, w, h, 5)
		p.setColor(colorNoteFill)
		p.fillPreserve()
		p.dc.SetLineWidth(1)
		p.setColor(colorLabel)
		p.stroke()
		p.centered(r.fonts.Notification, n.Text, x, y, w, h, colorLabel)
	}
}

// pointLabelCenterX places a point label's centre to the right of the marker,
// or to the left when the label would run past the surface's right edge.
func pointLabelCenterX(x int, textWidth, surfaceWidth float64) float64 {
	tw := textWidth + labelPadding
	px := float64(x)
	if px+markerRadius+tw > surfaceWidth {
		return px - tw/2 - markerRadius
	}
	return px + tw/2 + markerRadius
}

// hudOrigin returns the top-left of a w×h HUD box pinned to corner.
func hudOrigin(c Corner, w, h, surfaceW, surfaceH float64) (x, y float64) {
	switch c {
	case CornerTopRight:
		return surfaceW - w - hudMargin, hudMargin
	case CornerBottomRight:
		return surfaceW - w - hudMargin, surfaceH - h - hudMargin
	case CornerBottomLeft:
		return hudMargin, surfaceH - h - hudMargin
	default:
		return hudMargin, hudMargin
	}
}

// notificationTop is the y of the first notification. The stack starts lower
// when the HUD occupies a top corner.
func notificationTop(c Corner) float64 {
	if c.IsTop() {
		return 150
	}
	return 100
}

// painter wraps a gg context and keeps the first fill or stroke error.
type painter struct {
	dc   *gg.Context
	w, h float64
	err  error
}

func (p *painter) keep(err error) {
	if err != nil && p.err == nil {
		p.err = err
	}
}

func (p *painter) setColor(c color.Color) { p.dc.SetColor(c) }
func (p *painter) fill()                  { p.keep(p.dc.Fill()) }
func (p *painter) fillPreserve()          { p.keep(p.dc.FillPreserve()) }
func (p *painter) stroke()                { p.keep(p.dc.Stroke()) }

func (p *painter) rect(x, y, w, h float64, c color.Color) {
	p.dc.DrawRectangle(x, y, w, h)
	p.setColor(c)
	p.fill()
}

func (p *painter) line(a, b geom.Point, width float64, c color.Color) {
	p.dc.DrawLine(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
	p.dc.SetLineWidth(width)
	p.setColor(c)
	p.stroke()
}

// dot fills a circle and, when outline is non-nil, strokes its edge.
func (p *painter) dot(x, y, r float64, fill, outline color.Color, outlineWidth float64) {
	p.dc.DrawCircle(x, y, r)
	p.setColor(fill)
	if outline == nil {
		p.fill()
		return
	}
	p.fillPreserve()
	p.dc.SetLineWidth(outlineWidth)
	p.setColor(outline)
	p.stroke()
}

func (p *painter) measure(face text.Face, s string) float64 {
	p.dc.SetFont(face)
	w, _ := p.dc.MeasureString(s)
	return w
}

// text draws s with its baseline at y.
func (p *painter) text(face text.Face, s string, x, y float64, c color.Color) {
	p.dc.SetFont(face)
	p.setColor(c)
	p.dc.DrawString(s, x, y)
}

// centered draws s centred in the box at (x, y, w, h).
func (p *painter) centered(face text.Face, s string, x, y, w, h float64, c color.Color) {
	m := face.Metrics()
	tw := p.measure(face, s)
	baseline := y + (h-m.LineHeight())/2 + m.Ascent
	p.text(face, s, x+(w-tw)/2, baseline, c)
}

// labelBox draws s on a translucent black box centred on (cx, cy).
func (p *painter) labelBox(face text.Face, s string, cx, cy float64, c color.Color, alpha uint8) {
	m := face.Metrics()
	w := p.measure(face, s) + 10
	h := m.LineHeight() + 4
	p.rect(cx-w/2, cy-h/2, w, h, color.NRGBA{0, 0, 0, alpha})
	p.text(face, s, cx-w/2+5, cy-h/2+2+m.Ascent, c)
}
