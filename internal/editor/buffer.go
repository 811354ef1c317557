package editor

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Buffer is the live text of one document plus its caret and selection.
// Offsets are byte offsets into the text and always sit on rune boundaries.
type Buffer struct {
	text  []byte
	caret int

	// goalCol keeps the rune column across vertical moves through short lines.
	goalCol int

	selectionAnchor    int
	selectionAnchored  bool
	selectionIsVisible bool
}

func NewBuffer(text string) *Buffer {
	return &Buffer{text: []byte(text), goalCol: -1}
}

func (b *Buffer) Text() string {
	return string(b.text)
}

func (b *Buffer) Len() int {
	return len(b.text)
}

func (b *Buffer) Caret() int {
	return b.caret
}

func (b *Buffer) SetCaret(pos int) {
	b.caret = clampToRuneBoundary(b.text, pos)
	b.goalCol = -1
	if b.selectionAnchored {
		b.selectionIsVisible = b.selectionAnchor != b.caret
	}
}

// LineCol returns the zero-based line and byte column of pos.
func (b *Buffer) LineCol(pos int) (int, int) {
	pos = clampToRuneBoundary(b.text, pos)
	line := strings.Count(string(b.text[:pos]), "\n")
	start := lineStart(b.text, pos)
	return line, pos - start
}

// Lines splits the text on '\n'. An empty buffer has one empty line.
func (b *Buffer) Lines() []string {
	return strings.Split(string(b.text), "\n")
}

// OffsetOf converts a line and byte column back into a buffer offset.
func (b *Buffer) OffsetOf(line, col int) int {
	if line < 0 {
		return 0
	}
	pos := 0
	for i := 0; i < line; i++ {
		next := indexByteFrom(b.text, pos, '\n')
		if next < 0 {
			return len(b.text)
		}
		pos = next + 1
	}
	end := lineEnd(b.text, pos)
	if col < 0 {
		col = 0
	}
	if pos+col > end {
		return end
	}
	return clampToRuneBoundary(b.text, pos+col)
}

func (b *Buffer) MoveLeft() {
	if b.caret <= 0 {
		return
	}
	b.caret = previousRuneBoundary(b.text, b.caret)
	b.goalCol = -1
}

func (b *Buffer) MoveRight() {
	if b.caret >= len(b.text) {
		return
	}
	b.caret = nextRuneBoundary(b.text, b.caret)
	b.goalCol = -1
}

func (b *Buffer) MoveWordLeft() {
	pos := b.caret
	for pos > 0 {
		r, size := utf8.DecodeLastRune(b.text[:pos])
		if size <= 0 {
			size = 1
		}
		if isWordRune(r) {
			break
		}
		pos -= size
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRune(b.text[:pos])
		if size <= 0 {
			size = 1
		}
		if !isWordRune(r) {
			break
		}
		pos -= size
	}
	b.caret = clampToRuneBoundary(b.text, pos)
	b.goalCol = -1
}

func (b *Buffer) MoveWordRight() {
	pos := b.caret
	for pos < len(b.text) {
		r, size := utf8.DecodeRune(b.text[pos:])
		if size <= 0 {
			size = 1
		}
		if isWordRune(r) {
			break
		}
		pos += size
	}
	for pos < len(b.text) {
		r, size := utf8.DecodeRune(b.text[pos:])
		if size <= 0 {
			size = 1
		}
		if !isWordRune(r) {
			break
		}
		pos += size
	}
	b.caret = clampToRuneBoundary(b.text, pos)
	b.goalCol = -1
}

func (b *Buffer) MoveUp() {
	b.moveVertical(-1)
}

func (b *Buffer) MoveDown() {
	b.moveVertical(1)
}

func (b *Buffer) MoveToLineStart() {
	b.caret = lineStart(b.text, b.caret)
	b.goalCol = -1
}

func (b *Buffer) MoveToLineEnd() {
	b.caret = lineEnd(b.text, b.caret)
	b.goalCol = -1
}

func (b *Buffer) MoveToStart() {
	b.caret = 0
	b.goalCol = -1
}

func (b *Buffer) MoveToEnd() {
	b.caret = len(b.text)
	b.goalCol = -1
}

// Insert types input at the caret, replacing any selection. Line breaks in
// input are rewritten to the document's line ending.
func (b *Buffer) Insert(input string) error {
	if input == "" {
		return nil
	}
	if !utf8.ValidString(input) {
		return fmt.Errorf("input must be valid UTF-8")
	}
	input = strings.ReplaceAll(input, "\r\n", "\n")
	if eol := b.LineEnding(); eol != "\n" {
		input = strings.ReplaceAll(input, "\n", eol)
	}
	b.insertRaw(input)
	return nil
}

// Newline breaks the line at the caret using the document's line ending.
func (b *Buffer) Newline() {
	b.insertRaw(b.LineEnding())
}

// LineEnding reports "\r\n" when the first line break in the document is
// CRLF and "\n" otherwise.
func (b *Buffer) LineEnding() string {
	if i := bytes.IndexByte(b.text, '\n'); i > 0 && b.text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func (b *Buffer) insertRaw(input string) {
	b.DeleteSelection()
	b.replaceRange(b.caret, b.caret, []byte(input))
	b.caret += len(input)
	b.goalCol = -1
	b.ClearSelection()
}

func (b *Buffer) Backspace() {
	if b.DeleteSelection() {
		return
	}
	if b.caret <= 0 {
		return
	}
	start := previousRuneBoundary(b.text, b.caret)
	b.replaceRange(start, b.caret, nil)
	b.caret = start
	b.goalCol = -1
}

func (b *Buffer) DeleteForward() {
	if b.DeleteSelection() {
		return
	}
	if b.caret >= len(b.text) {
		return
	}
	end := nextRuneBoundary(b.text, b.caret)
	b.replaceRange(b.caret, end, nil)
	b.goalCol = -1
}

func (b *Buffer) DeleteWordBackward() {
	if b.DeleteSelection() {
		return
	}
	start := previousWordBoundary(b.text, b.caret)
	if start == b.caret {
		return
	}
	b.replaceRange(start, b.caret, nil)
	b.caret = start
	b.goalCol = -1
}

func (b *Buffer) DeleteWordForward() {
	if b.DeleteSelection() {
		return
	}
	end := nextWordBoundary(b.text, b.caret)
	if end == b.caret {
		return
	}
	b.replaceRange(b.caret, end, nil)
	b.goalCol = -1
}

func (b *Buffer) HasSelection() bool {
	return b.selectionIsVisible
}

func (b *Buffer) EnsureSelectionAnchor() {
	if b.selectionAnchored {
		return
	}
	b.selectionAnchor = b.caret
	b.selectionAnchored = true
	b.selectionIsVisible = false
}

func (b *Buffer) UpdateSelectionFromCaret() {
	if !b.selectionAnchored {
		b.selectionAnchor = b.caret
		b.selectionAnchored = true
	}
	b.selectionIsVisible = b.selectionAnchor != b.caret
}

func (b *Buffer) ClearSelection() {
	b.selectionAnchored = false
	b.selectionIsVisible = false
}

// SelectionRange returns the ordered selection bounds.
func (b *Buffer) SelectionRange() (int, int, bool) {
	if !b.selectionIsVisible {
		return 0, 0, false
	}
	start := clampToRuneBoundary(b.text, b.selectionAnchor)
	end := b.caret
	if start > end {
		start, end = end, start
	}
	return start, end, true
}

func (b *Buffer) SelectAll() {
	b.selectionAnchor = 0
	b.selectionAnchored = true
	b.caret = len(b.text)
	b.goalCol = -1
	b.selectionIsVisible = b.caret != 0
}

func (b *Buffer) SelectedText() string {
	start, end, ok := b.SelectionRange()
	if !ok {
		return ""
	}
	return string(b.text[start:end])
}

func (b *Buffer) DeleteSelection() bool {
	start, end, ok := b.SelectionRange()
	if !ok {
		return false
	}
	if start >= end {
		b.ClearSelection()
		return false
	}
	b.replaceRange(start, end, nil)
	b.caret = start
	b.goalCol = -1
	b.ClearSelection()
	return true
}

func (b *Buffer) moveVertical(delta int) {
	line, _ := b.LineCol(b.caret)
	col := b.goalCol
	if col < 0 {
		start := lineStart(b.text, b.caret)
		col = utf8.RuneCount(b.text[start:b.caret])
	}
	target := line + delta
	if target < 0 {
		b.caret = 0
		b.goalCol = col
		return
	}
	lines := strings.Count(string(b.text), "\n")
	if target > lines {
		b.caret = len(b.text)
		b.goalCol = col
		return
	}
	start := b.OffsetOf(target, 0)
	end := lineEnd(b.text, start)
	pos := start
	for i := 0; i < col && pos < end; i++ {
		pos = nextRuneBoundary(b.text, pos)
	}
	b.caret = pos
	b.goalCol = col
}

func (b *Buffer) replaceRange(start, end int, insert []byte) {
	start = clampToRuneBoundary(b.text, start)
	end = clampToRuneBoundary(b.text, end)
	if end < start {
		start, end = end, start
	}
	out := make([]byte, 0, len(b.text)-(end-start)+len(insert))
	out = append(out, b.text[:start]...)
	out = append(out, insert...)
	out = append(out, b.text[end:]...)
	b.text = out
}

func lineStart(text []byte, pos int) int {
	for pos > 0 && text[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd stops before the '\r' of a CRLF break.
func lineEnd(text []byte, pos int) int {
	next := indexByteFrom(text, pos, '\n')
	if next < 0 {
		return len(text)
	}
	if next > pos && text[next-1] == '\r' {
		return next - 1
	}
	return next
}

func indexByteFrom(text []byte, from int, c byte) int {
	for i := from; i < len(text); i++ {
		if text[i] == c {
			return i
		}
	}
	return -1
}

// clampToRuneBoundary moves pos back to the start of the valid UTF-8 rune or
// CRLF pair it falls inside. Bytes that do not decode are one-byte runes.
func clampToRuneBoundary(text []byte, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(text) {
		return len(text)
	}
	if text[pos-1] == '\r' && text[pos] == '\n' {
		return pos - 1
	}
	for start := pos - 1; start >= 0 && pos-start < utf8.UTFMax; start-- {
		if !utf8.RuneStart(text[start]) {
			continue
		}
		r, size := utf8.DecodeRune(text[start:])
		if r == utf8.RuneError && size <= 1 {
			return pos
		}
		if start+size > pos {
			return start
		}
		return pos
	}
	return pos
}

func previousRuneBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	if pos == 0 {
		return 0
	}
	if pos >= 2 && text[pos-2] == '\r' && text[pos-1] == '\n' {
		return pos - 2
	}
	_, size := utf8.DecodeLastRune(text[:pos])
	if size <= 0 {
		size = 1
	}
	return pos - size
}

func nextRuneBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	if pos >= len(text) {
		return len(text)
	}
	if pos+1 < len(text) && text[pos] == '\r' && text[pos+1] == '\n' {
		return pos + 2
	}
	_, size := utf8.DecodeRune(text[pos:])
	if size <= 0 {
		size = 1
	}
	return pos + size
}

func previousWordBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	for pos > 0 {
		r, size := utf8.DecodeLastRune(text[:pos])
		if size <= 0 {
			size = 1
		}
		if !unicode.IsSpace(r) {
			break
		}
		pos -= size
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRune(text[:pos])
		if size <= 0 {
			size = 1
		}
		if unicode.IsSpace(r) {
			break
		}
		pos -= size
	}
	return clampToRuneBoundary(text, pos)
}

func nextWordBoundary(text []byte, pos int) int {
	pos = clampToRuneBoundary(text, pos)
	for pos < len(text) {
		r, size := utf8.DecodeRune(text[pos:])
		if size <= 0 {
			size = 1
		}
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	for pos < len(text) {
		r, size := utf8.DecodeRune(text[pos:])
		if size <= 0 {
			size = 1
		}
		if unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return clampToRuneBoundary(text, pos)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
