// Package crawler fetches web pages and extracts their visible text for
// ingestion. It performs a single-page fetch; link following and robots
// handling are out of scope.
package crawler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/helperly/helperly/internal/domain"
	"golang.org/x/net/html"
)

const serviceName = "url_fetch"

// Fetcher retrieves a URL and extracts its textual content.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a Fetcher with a bounded request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchText downloads the page at url and returns its visible text with
// script and style subtrees discarded. Network and HTTP failures surface
// as domain.ExternalServiceError.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.NewExternalServiceError(serviceName, "failed to build request", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", domain.NewExternalServiceError(serviceName, fmt.Sprintf("failed to fetch %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.NewExternalServiceError(serviceName,
			fmt.Sprintf("fetching %s returned status %d", url, resp.StatusCode), nil)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", domain.NewExternalServiceError(serviceName, "failed to parse page", err)
	}

	return ExtractText(doc), nil
}

// ExtractText walks an HTML tree and collects text nodes, skipping script
// and style elements, one line per text node.
func ExtractText(doc *html.Node) string {
	var lines []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(lines, "\n")
}
