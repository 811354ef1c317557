package ui

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Line is one laid-out line of the text surface.
type Line struct {
	// Start is the byte offset of the line in the buffer.
	Start int
	Text  string
	DocY  int
	Width int
}

// TextView positions a buffer's lines in document space. Every line has the
// same height because the surface uses a single monospace face.
type TextView struct {
	Lines      []Line
	LineHeight int
	DocX       int
	Width      int
	Height     int
}

func LayoutText(lines []string, measure Measure, lineHeight, docX int) TextView {
	if lineHeight <= 0 {
		lineHeight = 1
	}
	view := TextView{
		Lines:      make([]Line, 0, len(lines)),
		LineHeight: lineHeight,
		DocX:       docX,
	}
	start := 0
	for i, raw := range lines {
		// The '\r' of a CRLF break is part of the break, not the line.
		text := strings.TrimSuffix(raw, "\r")
		w := measure(text)
		view.Lines = append(view.Lines, Line{Start: start, Text: text, DocY: i * lineHeight, Width: w})
		view.Width = max(view.Width, docX+w)
		start += len(raw) + 1
	}
	view.Height = len(lines) * lineHeight
	return view
}

// LineAt returns the index of the line under docY, clamped to the text.
func (v TextView) LineAt(docY int) int {
	if len(v.Lines) == 0 || docY < 0 {
		return 0
	}
	return min(docY/v.LineHeight, len(v.Lines)-1)
}

// OffsetAt converts a document-space point into the nearest caret offset.
func (v TextView) OffsetAt(docX, docY int, measure Measure) int {
	if len(v.Lines) == 0 {
		return 0
	}
	line := v.Lines[v.LineAt(docY)]
	return line.Start + ByteAtX(line.Text, docX-v.DocX, measure)
}

// CaretPoint returns the line index holding offset and the document-space x
// of the caret on it.
func (v TextView) CaretPoint(offset int, measure Measure) (int, int) {
	for i, line := range v.Lines {
		if offset >= line.Start && offset <= line.Start+len(line.Text) {
			return i, v.DocX + Advance(line.Text, offset-line.Start, measure)
		}
	}
	if len(v.Lines) == 0 {
		return 0, v.DocX
	}
	last := len(v.Lines) - 1
	return last, v.DocX + v.Lines[last].Width
}

// Advance is the width of the first rel bytes of text.
func Advance(text string, rel int, measure Measure) int {
	if rel <= 0 {
		return 0
	}
	if rel >= len(text) {
		return measure(text)
	}
	return measure(text[:rel])
}

// ByteAtX returns the byte offset in text nearest to relX, snapping to the
// closer edge of the rune under it.
func ByteAtX(text string, relX int, measure Measure) int {
	if relX <= 0 {
		return 0
	}
	x := 0
	for i, r := range text {
		rw := measure(string(r))
		if relX < x+rw/2 {
			return i
		}
		x += rw
	}
	return len(text)
}

type Scroll struct {
	X float64
	Y float64
}

// Max is how far the view can scroll when showing v through a viewport.
func (v TextView) Max(viewW, viewH, margin int) (float64, float64) {
	maxX := math.Max(0, float64(v.Width+margin-viewW))
	maxY := math.Max(0, float64(v.Height+margin-viewH))
	return maxX, maxY
}

func (s *Scroll) Clamp(maxX, maxY float64) {
	s.X = math.Min(math.Max(s.X, 0), maxX)
	s.Y = math.Min(math.Max(s.Y, 0), maxY)
}

// Reveal scrolls just enough to bring the caret at offset into view.
func (s *Scroll) Reveal(v TextView, offset, viewW, viewH, pad int, measure Measure) {
	if len(v.Lines) == 0 || viewW <= 0 || viewH <= 0 {
		return
	}
	line, x := v.CaretPoint(offset, measure)
	top := float64(v.Lines[line].DocY)
	bottom := top + float64(v.LineHeight)
	if top < s.Y {
		s.Y = top
	}
	if bottom > s.Y+float64(viewH) {
		s.Y = bottom - float64(viewH)
	}
	caretX := float64(x)
	if caretX < s.X+float64(pad) {
		s.X = math.Max(0, caretX-float64(pad))
	}
	if caretX > s.X+float64(viewW-pad) {
		s.X = caretX - float64(viewW-pad)
	}
}

// Thumb sizes and positions a scrollbar thumb along a track of trackLen
// pixels showing viewLen pixels of content scrolled to pos out of maxPos.
func Thumb(trackLen, viewLen int, maxPos, pos float64) (int, int) {
	if maxPos <= 0 || trackLen <= 0 {
		return 0, trackLen
	}
	size := int(float64(trackLen) * float64(viewLen) / (float64(viewLen) + maxPos))
	size = min(max(size, 24), trackLen)
	off := int((pos / maxPos) * float64(trackLen-size))
	return off, size
}

// RuneColumn is the one-based column of byte col in line, counted in runes.
func RuneColumn(line string, col int) int {
	col = min(max(col, 0), len(line))
	return utf8.RuneCountInString(line[:col]) + 1
}
