package listings

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"hotel_finder/internal/domain"
)

// Structural roles on the listing page, by CSS class.
const (
	classTitle       = "result-title"
	classPrice       = "price"
	classRating      = "rating"
	classAddress     = "address"
	classDescription = "description"
)

// resultBlock holds the raw text of one listing; nil means the element was absent.
type resultBlock struct {
	name        *string
	price       *string
	rating      *string
	address     *string
	description *string
}

// parseResults walks the document in order. Each div.result-title opens a block; the field divs
// that follow it are attributed to that block until the next title.
func parseResults(r io.Reader) ([]resultBlock, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []resultBlock
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			switch {
			case hasClass(n, classTitle):
				var b resultBlock
				if span := firstElement(n, "span"); span != nil {
					s := text(span)
					b.name = &s
				}
				blocks = append(blocks, b)
				// the title's own subtree only carries the name
				return
			case len(blocks) > 0:
				cur := &blocks[len(blocks)-1]
				switch {
				case cur.price == nil && hasClass(n, classPrice):
					cur.price = ptr(text(n))
				case cur.rating == nil && hasClass(n, classRating):
					cur.rating = ptr(text(n))
				case cur.address == nil && hasClass(n, classAddress):
					cur.address = ptr(text(n))
				case cur.description == nil && hasClass(n, classDescription):
					cur.description = ptr(text(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks, nil
}

// candidate converts raw text into typed fields. An unparseable price or rating fails the
// whole candidate.
func (b resultBlock) candidate() (domain.Candidate, error) {
	if b.name == nil || *b.name == "" {
		return domain.Candidate{}, fmt.Errorf("listing has no name")
	}
	c := domain.Candidate{Name: *b.name, Address: b.address, Description: b.description}
	if b.price != nil {
		p, err := parsePrice(*b.price)
		if err != nil {
			return domain.Candidate{}, fmt.Errorf("%s: %w", c.Name, err)
		}
		c.Price = &p
	}
	if b.rating != nil {
		r, err := parseRating(*b.rating)
		if err != nil {
			return domain.Candidate{}, fmt.Errorf("%s: %w", c.Name, err)
		}
		c.Rating = &r
	}
	return c, nil
}

// parsePrice accepts "$1,250" style text.
func parsePrice(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("bad price %q", s)
	}
	return f, nil
}

// parseRating accepts "8.5/10" or "8.5".
func parseRating(s string) (float64, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(s), "/")
	f, err := strconv.ParseFloat(strings.TrimSpace(head), 64)
	if err != nil {
		return 0, fmt.Errorf("bad rating %q", s)
	}
	return f, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func firstElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := firstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

var whitespace = regexp.MustCompile(`\s+`)

// text returns the collapsed, trimmed text content of n.
func text(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return strings.TrimSpace(whitespace.ReplaceAllString(sb.String(), " "))
}

func ptr(s string) *string { return &s }
