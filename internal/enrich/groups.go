package enrich

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/votelens/votelens/internal/model"
)

// Enricher finds interest groups related to mapped policy terms by
// scanning configured directory pages for matching links.
type Enricher struct {
	fetcher   *Fetcher
	urls      []string
	maxGroups int
}

// NewEnricher creates a new Enricher
func NewEnricher(fetcher *Fetcher, directoryURLs []string, maxGroups int) *Enricher {
	if maxGroups <= 0 {
		maxGroups = 10
	}
	return &Enricher{
		fetcher:   fetcher,
		urls:      directoryURLs,
		maxGroups: maxGroups,
	}
}

// FindGroups scans the directory pages and returns groups whose link
// text shares a meaningful token with one of the mapped terms. Fetch
// failures skip the page rather than failing the enrichment.
func (e *Enricher) FindGroups(ctx context.Context, terms []string) ([]model.InterestGroup, []string, error) {
	var groups []model.InterestGroup
	var warnings []string
	seen := make(map[string]bool)

	for _, pageURL := range e.urls {
		if len(groups) >= e.maxGroups {
			break
		}

		result, err := e.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped directory %s: %v", pageURL, err))
			continue
		}

		links, err := extractLinks(result.HTML, result.FinalURL)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped directory %s: %v", pageURL, err))
			continue
		}

		for _, link := range links {
			if len(groups) >= e.maxGroups {
				break
			}
			if seen[link.href] {
				continue
			}

			term, ok := matchTerm(link.text, terms)
			if !ok {
				continue
			}

			seen[link.href] = true
			groups = append(groups, model.InterestGroup{
				Name:        link.text,
				URL:         link.href,
				MatchedTerm: term,
				Source:      pageURL,
			})
		}
	}

	return groups, warnings, nil
}

type pageLink struct {
	text string
	href string
}

// extractLinks parses the HTML and returns all anchors with both a
// non-empty href and visible text, resolved against the page URL
func extractLinks(htmlContent, baseURL string) ([]pageLink, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var links []pageLink
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := ""
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
					break
				}
			}
			text := strings.TrimSpace(nodeText(n))
			if href != "" && text != "" {
				if resolved, err := base.Parse(href); err == nil {
					scheme := resolved.Scheme
					if scheme == "http" || scheme == "https" {
						links = append(links, pageLink{text: text, href: resolved.String()})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// nodeText collects the text content of a node and its children
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

// matchTerm reports whether the link text shares a token longer than
// three characters with any of the terms. Terms are checked in sorted
// order so the matched term is stable across runs.
func matchTerm(text string, terms []string) (string, bool) {
	textTokens := make(map[string]bool)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,;:!?()[]\"'")
		if len(token) > 3 {
			textTokens[token] = true
		}
	}

	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.Strings(sorted)

	for _, term := range sorted {
		for _, token := range strings.Fields(strings.ToLower(term)) {
			if len(token) > 3 && textTokens[token] {
				return term, true
			}
		}
	}

	return "", false
}
