// Package extract is the text-extraction collaborator boundary. The core
// only ever consumes normalized Unicode text; extractors turn raw document
// payloads into it. Empty extracted text means "could not analyze", not an
// error the caller should crash on.
package extract

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat reports a payload no registered extractor understands.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor converts a raw document payload into plain text.
type Extractor interface {
	Extract(filename string, data []byte) (string, error)
}

// Default dispatches on file extension, sniffing HTML when the extension is
// missing or unknown. Plain text and HTML are handled here; richer formats
// (PDF, word-processor, tabular) plug in through the Extractor interface.
type Default struct{}

func NewDefault() *Default {
	return &Default{}
}

func (d *Default) Extract(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".text":
		return decodeText(data), nil
	case ".html", ".htm", ".xhtml":
		return FromHTML(data)
	case "":
		if looksLikeHTML(data) {
			return FromHTML(data)
		}
		return decodeText(data), nil
	default:
		// Last resort: payloads that are mostly printable decode as text,
		// anything else is unsupported.
		if looksLikeHTML(data) {
			return FromHTML(data)
		}
		if printableRatio(data) >= 0.9 {
			return decodeText(data), nil
		}
		return "", ErrUnsupportedFormat
	}
}

// decodeText keeps valid UTF-8 and drops broken sequences rather than
// failing the document.
func decodeText(data []byte) string {
	return string(bytes.ToValidUTF8(data, nil))
}

func looksLikeHTML(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	return bytes.Contains(lower, []byte("<html")) ||
		bytes.Contains(lower, []byte("<!doctype html")) ||
		bytes.Contains(lower, []byte("<body"))
}

func printableRatio(data []byte) float64 {
	if len(data) == 0 {
		return 1.0
	}
	printable := 0
	for _, c := range data {
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c != 0x7f) {
			printable++
		}
	}
	return float64(printable) / float64(len(data))
}
