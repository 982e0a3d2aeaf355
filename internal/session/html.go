package session

import (
	"io"
	"strings"
	"unicode"

	"github.com/eshaffer321/hilink-go/internal/types"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

const (
	csrfMetaName       = "csrf_token"
	csrfMarker         = "csrf"
	heuristicMinLength = 20
)

type metaTag struct {
	name    string
	content string
}

// ScrapeToken finds a CSRF token in the meta tags of an HTML page. Candidates
// are tried from most to least specific:
//
//  1. <meta name="csrf_token" content="...">
//  2. any meta whose content mentions csrf
//  3. any meta whose content is a letters-and-digits run longer than 20 bytes
//
// The last rule guesses; a warning is logged whenever it is the one that matched.
func ScrapeToken(r io.Reader, logger types.Logger) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse root page")
	}

	metas := collectMeta(doc)

	for _, m := range metas {
		if strings.EqualFold(m.name, csrfMetaName) && m.content != "" {
			return m.content, nil
		}
	}

	for _, m := range metas {
		if strings.Contains(strings.ToLower(m.content), csrfMarker) {
			return m.content, nil
		}
	}

	for _, m := range metas {
		if len(m.content) > heuristicMinLength && isAlphanumeric(m.content) {
			types.LoggerOrNop(logger).Warn("csrf token taken from heuristic meta match",
				"meta_name", m.name,
				"length", len(m.content))
			return m.content, nil
		}
	}

	return "", errors.New("no csrf meta tag in root page")
}

func collectMeta(n *html.Node) []metaTag {
	var metas []metaTag
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var m metaTag
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					m.name = attr.Val
				case "content":
					m.content = strings.TrimSpace(attr.Val)
				}
			}
			metas = append(metas, m)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return metas
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
