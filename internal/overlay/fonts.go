package overlay

import (
	"fmt"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontSizes are the pixel sizes of the overlay's text roles.
type FontSizes struct {
	HUD          float64 `mapstructure:"hud"`
	Title        float64 `mapstructure:"title"`
	Notification float64 `mapstructure:"notification"`
	Body         float64 `mapstructure:"body"`
	Small        float64 `mapstructure:"small"`
}

// DefaultFontSizes returns the sizes used when nothing is configured.
func DefaultFontSizes() FontSizes {
	return FontSizes{
		HUD:          21,
		Title:        21,
		Notification: 16,
		Body:         15,
		Small:        13,
	}
}

// Fonts holds every face the renderer draws with.
type Fonts struct {
	HUD          text.Face // monospace bold, coordinate readout
	Title        text.Face // help panel heading
	Notification text.Face
	Label        text.Face // marker and ruler labels
	Mono         text.Face // help panel rows
	Hint         text.Face
	Footer       text.Face // italic

	sources []*text.FontSource
}

// LoadFonts parses the embedded Go fonts and builds faces at the given sizes.
func LoadFonts(sizes FontSizes) (*Fonts, error) {
	f := &Fonts{}
	load := func(name string, data []byte) (*text.FontSource, error) {
		src, err := text.NewFontSource(data)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to parse %s font: %w", name, err)
		}
		f.sources = append(f.sources, src)
		return src, nil
	}

	regular, err := load("regular", goregular.TTF)
	if err != nil {
		return nil, err
	}
	bold, err := load("bold", gobold.TTF)
	if err != nil {
		return nil, err
	}
	italic, err := load("italic", goitalic.TTF)
	if err != nil {
		return nil, err
	}
	mono, err := load("mono", gomono.TTF)
	if err != nil {
		return nil, err
	}
	monoBold, err := load("mono bold", gomonobold.TTF)
	if err != nil {
		return nil, err
	}

	f.HUD = monoBold.Face(sizes.HUD)
	f.Title = bold.Face(sizes.Title)
	f.Notification = regular.Face(sizes.Notification)
	f.Label = regular.Face(sizes.Notification)
	f.Mono = mono.Face(sizes.Body)
	f.Hint = regular.Face(sizes.Small)
	f.Footer = italic.Face(sizes.Small)
	return f, nil
}

// Close releases the parsed font sources.
func (f *Fonts) Close() {
	for _, src := range f.sources {
		_ = src.Close()
	}
	f.sources = nil
}
