package window

import (
	"image"
	"math"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/Iron-Ham/screencoord/internal/geom"
	"github.com/Iron-Ham/screencoord/internal/overlay"
)

// translateKey maps a platform key event to a session event. Auto-repeat
// events and unrelated keys produce nothing.
func translateKey(e key.Event) (overlay.Event, bool) {
	var k overlay.Key
	switch e.Code {
	case key.CodeE:
		k = overlay.KeyE
	case key.CodeR:
		k = overlay.KeyR
	case key.CodeH:
		k = overlay.KeyH
	case key.CodeQ:
		k = overlay.KeyQ
	case key.CodeEscape:
		k = overlay.KeyEscape
	case key.CodeSpacebar:
		k = overlay.KeySpace
	case key.CodeDeleteForward, key.CodeDeleteBackspace:
		k = overlay.KeyDelete
	case key.CodeLeftShift, key.CodeRightShift:
		k = overlay.KeyShift
	default:
		return nil, false
	}

	switch e.Direction {
	case key.DirPress:
		return overlay.KeyPress{Key: k}, true
	case key.DirRelease:
		return overlay.KeyRelease{Key: k}, true
	default:
		return nil, false
	}
}

// viewport maps window pixels onto the drawing surface, whose pixels are the
// screen's. The two differ when the window manager shrinks the window or the
// screenshot was taken at a HiDPI scale.
type viewport struct {
	sx, sy float64
}

func newViewport(surface image.Point, width, height int) viewport {
	vp := viewport{sx: 1, sy: 1}
	if surface.X > 0 && width > 0 {
		vp.sx = float64(surface.X) / float64(width)
	}
	if surface.Y > 0 && height > 0 {
		vp.sy = float64(surface.Y) / float64(height)
	}
	return vp
}

func (v viewport) identity() bool { return v.sx == 1 && v.sy == 1 }

// toSurface converts a window position to surface pixels.
func (v viewport) toSurface(x, y float32) geom.Point {
	return geom.Pt(
		int(math.Floor(float64(x)*v.sx)),
		int(math.Floor(float64(y)*v.sy)),
	)
}

// translateMouse maps a platform mouse event to session events in surface
// pixels. A press is preceded by a move so the session sees the click
// position as the cursor.
func translateMouse(e mouse.Event, vp viewport) []overlay.Event {
	pos := vp.toSurface(e.X, e.Y)
	switch e.Direction {
	case mouse.DirNone:
		return []overlay.Event{overlay.PointerMove{Pos: pos}}
	case mouse.DirPress:
		b := translateButton(e.Button)
		if b == overlay.ButtonNone {
			return []overlay.Event{overlay.PointerMove{Pos: pos}}
		}
		return []overlay.Event{
			overlay.PointerMove{Pos: pos},
			overlay.PointerPress{Pos: pos, Button: b},
		}
	default:
		return nil
	}
}

func translateButton(b mouse.Button) overlay.Button {
	switch b {
	case mouse.ButtonLeft:
		return overlay.ButtonLeft
	case mouse.ButtonRight:
		return overlay.ButtonRight
	case mouse.ButtonMiddle:
		return overlay.ButtonMiddle
	default:
		return overlay.ButtonNone
	}
}
