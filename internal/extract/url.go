package extract

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Elements that never carry article content.
const strippedSelectors = "script, style, nav, header, footer, iframe, noscript"

// Primary content containers, tried in order before falling back to body.
var contentSelectors = []string{"main", "article", ".content", ".post", "#content"}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExtractURL fetches a web page and returns its main textual content.
// Pages whose extracted text is shorter than 100 characters are rejected as
// content-free (login walls, redirects, bot blocks).
func (e *Extractor) ExtractURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("extract url: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extract url: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("extract url: fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("extract url: parse %s: %w", rawURL, err)
	}
	doc.Find(strippedSelectors).Remove()

	var text string
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			text = sel.First().Text()
			break
		}
	}
	if strings.TrimSpace(text) == "" {
		text = doc.Find("body").Text()
	}
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	if len(text) < e.minContentLen {
		return "", fmt.Errorf("extract url: content too short (%d chars) at %s", len(text), rawURL)
	}
	return text, nil
}
