package clap

import (
	"fmt"
	"strings"
	"unicode"
)

// wrapWriter accumulates text, wrapping at word boundaries so no line exceeds
// the given width (a single word longer than the available width is written
// unsplit). Wrapped continuation lines start with the current line prefix.
type wrapWriter struct {
	b           strings.Builder
	width       int
	col         int
	prefix      string
	word        []rune
	pendingGap  int
	atLineStart bool
}

func newWrapWriter(width int) (*wrapWriter, error) {
	if width <= 0 {
		return nil, fmt.Errorf("illegal width: %d", width)
	}
	return &wrapWriter{width: width, atLineStart: true}, nil
}

func (w *wrapWriter) SetPrefix(prefix string) error {
	if len(prefix) >= w.width {
		return fmt.Errorf("invalid prefix '%s': too large for width %d", prefix, w.width)
	}
	if strings.ContainsRune(prefix, '\n') {
		return fmt.Errorf("invalid prefix '%s': cannot contain new lines", prefix)
	}
	w.prefix = prefix
	return nil
}

func (w *wrapWriter) Write(p []byte) (int, error) {
	for _, r := range string(p) {
		switch {
		case r == '\n':
			w.flushWord()
			w.b.WriteByte('\n')
			w.col = 0
			w.atLineStart = true
			w.pendingGap = 0
		case unicode.IsSpace(r):
			w.flushWord()
			w.pendingGap++
		default:
			w.word = append(w.word, r)
		}
	}
	return len(p), nil
}

func (w *wrapWriter) flushWord() {
	if len(w.word) == 0 {
		return
	}
	if w.atLineStart {
		w.b.WriteString(w.prefix)
		w.col = len(w.prefix)
		w.atLineStart = false
		w.pendingGap = 0
	}
	if w.col+w.pendingGap+len(w.word) > w.width && w.col > len(w.prefix) {
		w.b.WriteByte('\n')
		w.b.WriteString(w.prefix)
		w.col = len(w.prefix)
		w.pendingGap = 0
	}
	if w.pendingGap > 0 {
		w.b.WriteString(strings.Repeat(" ", w.pendingGap))
		w.col += w.pendingGap
	}
	w.b.WriteString(string(w.word))
	w.col += len(w.word)
	w.word = w.word[:0]
	w.pendingGap = 0
}

func (w *wrapWriter) String() string {
	w.flushWord()
	return w.b.String()
}
