package capture

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// RawRow is a rendered library row that carries a song link.
type RawRow struct {
	Href     string // href of the song link, as written in the page
	LinkText string // visible text of the song link
	Text     string // visible text of the whole row
}

// ScanOpts selects rows and song links in a rendered page.
type ScanOpts struct {
	RowTestID      string // value of the data-testid attribute marking a row
	SongPathMarker string // substring a link's href must contain to be a song link
}

// ScanRows parses an HTML document and returns the rows that carry a song link, in document order.
//
// Rows without a song link (headers, placeholders) are left out.
func ScanRows(r io.Reader, opts ScanOpts) ([]RawRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var rows []RawRow
	var findRows func(*html.Node)
	findRows = func(n *html.Node) {
		if n.Type == html.ElementNode && opts.RowTestID != "" && getAttr(n, "data-testid") == opts.RowTestID {
			if link := findSongLink(n, opts.SongPathMarker); link != nil {
				rows = append(rows, RawRow{
					Href:     getAttr(link, "href"),
					LinkText: textContent(link),
					Text:     textContent(n),
				})
			}
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findRows(c)
		}
	}

	findRows(doc)
	return rows, nil
}

// findSongLink returns the first anchor under n whose href contains marker.
func findSongLink(n *html.Node, marker string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "a" && strings.Contains(getAttr(n, "href"), marker) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if link := findSongLink(c, marker); link != nil {
			return link
		}
	}
	return nil
}

// IdentifierFromHref returns the path segment that follows marker in href, or "" when there is none.
func IdentifierFromHref(href, marker string) string {
	idx := strings.Index(href, marker)
	if idx == -1 {
		return ""
	}
	rest := href[idx+len(marker):]
	if end := strings.IndexAny(rest, "/?#"); end != -1 {
		rest = rest[:end]
	}
	return rest
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// textContent joins the text nodes under n with single spaces, skipping scripts and styles.
func textContent(n *html.Node) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(parts, " ")
}
