package app

import (
	"fmt"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type faceKind int

const (
	faceUI faceKind = iota
	faceUIBold
	faceText
)

type fontKey struct {
	kind faceKind
	size int // points * 1000
}

type fontBank struct {
	fonts map[faceKind]*opentype.Font
	cache map[fontKey]font.Face
}

func newFontBank() (fontBank, error) {
	bank := fontBank{
		fonts: map[faceKind]*opentype.Font{},
		cache: map[fontKey]font.Face{},
	}
	sources := map[faceKind][]byte{
		faceUI:     goregular.TTF,
		faceUIBold: gobold.TTF,
		faceText:   gomono.TTF,
	}
	for kind, ttf := range sources {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return bank, fmt.Errorf("parse font: %w", err)
		}
		bank.fonts[kind] = f
	}
	return bank, nil
}

// face returns a cached face, falling back to the built-in bitmap face when a
// font cannot be rasterised at the requested size.
func (b *fontBank) face(kind faceKind, size float64) font.Face {
	key := fontKey{kind: kind, size: int(math.Round(size * 1000))}
	if f, ok := b.cache[key]; ok {
		return f
	}
	base := b.fonts[kind]
	if base == nil {
		return basicfont.Face7x13
	}
	f, err := opentype.NewFace(base, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return basicfont.Face7x13
	}
	b.cache[key] = f
	return f
}

func measureString(face font.Face, s string) int {
	if face == nil || s == "" {
		return 0
	}
	adv := font.MeasureString(face, s)
	px := (int(adv) + 32) >> 6
	if px < 0 {
		px = 0
	}
	return px
}

func centredBaseline(face font.Face, top, height int) int {
	m := face.Metrics()
	ascent := m.Ascent.Round()
	descent := m.Descent.Round()
	return top + (height+ascent+descent)/2 - descent
}
