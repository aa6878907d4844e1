package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	t.Run("short content untouched", func(t *testing.T) {
		assert.Equal(t, "a quiet day", preview("a quiet day", 200))
	})

	t.Run("long content truncated with ellipsis", func(t *testing.T) {
		out := preview(strings.Repeat("x", 300), 200)
		assert.Len(t, out, 203)
		assert.True(t, strings.HasSuffix(out, "..."))
	})

	t.Run("never splits a multibyte rune", func(t *testing.T) {
		// Each rune is three bytes; a byte-offset cut would land mid-rune.
		content := strings.Repeat("日", 10)
		out := preview(content, 7)
		assert.True(t, utf8.ValidString(out))
		assert.Equal(t, strings.Repeat("日", 7)+"...", out)
	})
}
