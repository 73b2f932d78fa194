package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Elements that never carry readable page content.
const nonContentSelector = "script, style, noscript, template, iframe, svg, nav, header, footer, aside, form"

// FromHTML extracts the visible main content of an HTML page. It prefers
// readability-style containers (article, main, common content ids) and
// falls back to the whole body with non-content elements stripped.
func FromHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(nonContentSelector).Remove()

	for _, sel := range []string{"article", "main", "#content", "#main", ".post-content", ".article-body"} {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if text := collapseWhitespace(node.Text()); text != "" {
				return text, nil
			}
		}
	}

	return collapseWhitespace(doc.Find("body").Text()), nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
