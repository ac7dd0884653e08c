package clap

import (
	"strings"
	"testing"

	. "github.com/arikkfir/justest"
	"github.com/go-loremipsum/loremipsum"
)

func Test_newWrapWriter(t *testing.T) {
	t.Parallel()
	_, err := newWrapWriter(0)
	With(t).Verify(err).Will(Fail(`^illegal width: 0$`)).OrFail()
	_, err = newWrapWriter(-3)
	With(t).Verify(err).Will(Fail(`^illegal width: -3$`)).OrFail()
	ww, err := newWrapWriter(10)
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(ww.SetPrefix(strings.Repeat(" ", 10))).Will(Fail(`too large for width`)).OrFail()
	With(t).Verify(ww.SetPrefix("a\nb")).Will(Fail(`cannot contain new lines`)).OrFail()
	With(t).Verify(ww.SetPrefix("  ")).Will(BeNil()).OrFail()
}

func Test_wrapWriter_exact(t *testing.T) {
	t.Parallel()
	type testCase struct {
		width    int
		prefix   string
		input    string
		expected string
	}
	testCases := map[string]testCase{
		"wraps at word boundaries": {
			width:    20,
			input:    "one two three four five six\n",
			expected: "one two three four\nfive six\n",
		},
		"prefixes every line": {
			width:    20,
			prefix:   "   ",
			input:    "one two three four five\n",
			expected: "   one two three\n   four five\n",
		},
		"short text passes through": {
			width:    40,
			input:    "just a line\n",
			expected: "just a line\n",
		},
		"explicit newlines reset the line": {
			width:    40,
			input:    "first\nsecond\n",
			expected: "first\nsecond\n",
		},
		"long word overflows unsplit": {
			width:    10,
			input:    "abcdefghijklmno",
			expected: "abcdefghijklmno",
		},
		"space runs within a line survive": {
			width:    40,
			input:    "ab   cd\n",
			expected: "ab   cd\n",
		},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ww, err := newWrapWriter(tc.width)
			With(t).Verify(err).Will(BeNil()).OrFail()
			if tc.prefix != "" {
				With(t).Verify(ww.SetPrefix(tc.prefix)).Will(BeNil()).OrFail()
			}
			_, err = ww.Write([]byte(tc.input))
			With(t).Verify(err).Will(BeNil()).OrFail()
			With(t).Verify(ww.String()).Will(EqualTo(tc.expected)).OrFail()
		})
	}
}

func Test_wrapWriter_properties(t *testing.T) {
	t.Parallel()
	const width = 60
	const prefix = "    "

	text := loremipsum.NewWithSeed(4321).Paragraph()
	ww, err := newWrapWriter(width)
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(ww.SetPrefix(prefix)).Will(BeNil()).OrFail()
	_, err = ww.Write([]byte(text))
	With(t).Verify(err).Will(BeNil()).OrFail()
	out := ww.String()

	// No line exceeds the width.
	for _, line := range strings.Split(out, "\n") {
		With(t).Verify(len(line) <= width).Will(EqualTo(true)).OrFail()
	}

	// Every line carries the prefix.
	for _, line := range strings.Split(out, "\n") {
		if line != "" {
			With(t).Verify(strings.HasPrefix(line, prefix)).Will(EqualTo(true)).OrFail()
		}
	}

	// Wrapping reorders nothing and loses nothing.
	With(t).Verify(strings.Fields(out)).Will(EqualTo(strings.Fields(text))).OrFail()
}
