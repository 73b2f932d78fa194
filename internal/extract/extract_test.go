package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	d := NewDefault()

	t.Run("plain text passes through", func(t *testing.T) {
		text, err := d.Extract("essay.txt", []byte("Plain text content.\nSecond line."))
		require.NoError(t, err)
		assert.Equal(t, "Plain text content.\nSecond line.", text)
	})

	t.Run("markdown treated as text", func(t *testing.T) {
		text, err := d.Extract("notes.md", []byte("# Heading\n\nBody text."))
		require.NoError(t, err)
		assert.Contains(t, text, "Body text.")
	})

	t.Run("invalid utf-8 is dropped not fatal", func(t *testing.T) {
		text, err := d.Extract("essay.txt", []byte("valid \xff\xfe more valid"))
		require.NoError(t, err)
		assert.Contains(t, text, "valid")
		assert.Contains(t, text, "more valid")
	})

	t.Run("html by extension", func(t *testing.T) {
		text, err := d.Extract("page.html", []byte("<html><body><p>Visible text.</p></body></html>"))
		require.NoError(t, err)
		assert.Equal(t, "Visible text.", text)
	})

	t.Run("html sniffed without extension", func(t *testing.T) {
		text, err := d.Extract("", []byte("<!DOCTYPE html><html><body><p>Sniffed.</p></body></html>"))
		require.NoError(t, err)
		assert.Equal(t, "Sniffed.", text)
	})

	t.Run("unknown extension with printable payload decodes as text", func(t *testing.T) {
		text, err := d.Extract("readme.rst", []byte("Just ordinary readable text."))
		require.NoError(t, err)
		assert.Equal(t, "Just ordinary readable text.", text)
	})

	t.Run("binary payload is unsupported", func(t *testing.T) {
		binary := make([]byte, 256)
		for i := range binary {
			binary[i] = byte(i)
		}
		_, err := d.Extract("data.bin", binary)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestFromHTML(t *testing.T) {
	t.Run("strips non-content elements", func(t *testing.T) {
		html := []byte(`<html><head><title>Title</title>
<script>var hidden = "should not appear";</script>
<style>.x { color: red }</style></head>
<body>
<nav>Home About Contact</nav>
<article><p>The actual article text lives here.</p></article>
<footer>Copyright notice</footer>
</body></html>`)

		text, err := FromHTML(html)
		require.NoError(t, err)
		assert.Contains(t, text, "actual article text")
		assert.NotContains(t, text, "should not appear")
		assert.NotContains(t, text, "color: red")
		assert.NotContains(t, text, "Home About Contact")
		assert.NotContains(t, text, "Copyright notice")
	})

	t.Run("prefers the main content region", func(t *testing.T) {
		html := []byte(`<html><body>
<div>sidebar noise</div>
<main><p>Main content paragraph.</p></main>
</body></html>`)

		text, err := FromHTML(html)
		require.NoError(t, err)
		assert.Equal(t, "Main content paragraph.", text)
	})

	t.Run("falls back to body", func(t *testing.T) {
		html := []byte(`<html><body><p>No content landmarks   at all.</p></body></html>`)

		text, err := FromHTML(html)
		require.NoError(t, err)
		assert.Equal(t, "No content landmarks at all.", text)
	})

	t.Run("whitespace collapses", func(t *testing.T) {
		html := []byte("<html><body><p>one\n\n   two\t\tthree</p></body></html>")

		text, err := FromHTML(html)
		require.NoError(t, err)
		assert.Equal(t, "one two three", text)
	})
}
