package dom

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	hiddenAttr   = "hidden"
	disabledAttr = "aria-disabled"
	apiBaseAttr  = "data-api-base"
)

// Page is a parsed HTML document together with the URL it is being rendered for.
type Page struct {
	doc      *goquery.Document
	location *url.URL
}

// Parse reads an HTML document. location may be empty.
func Parse(r io.Reader, location string) (*Page, error) {
	loc, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid page location %s: %w", location, err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return &Page{doc: doc, location: loc}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup, location string) (*Page, error) {
	return Parse(strings.NewReader(markup), location)
}

// Query returns the first element matching selector, or an empty selection.
func (p *Page) Query(selector string) *goquery.Selection {
	return p.doc.Find(selector).First()
}

// QueryAll returns every element matching selector.
func (p *Page) QueryAll(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// QueryParam reads a query string parameter from the page location.
func (p *Page) QueryParam(name string) string {
	if p.location == nil {
		return ""
	}
	return p.location.Query().Get(name)
}

// APIBase is the body's data-api-base attribute without a trailing slash.
func (p *Page) APIBase() string {
	base, _ := p.doc.Find("body").First().Attr(apiBaseAttr)
	return strings.TrimSuffix(strings.TrimSpace(base), "/")
}

// Render serializes the whole document.
func (p *Page) Render() ([]byte, error) {
	var buf bytes.Buffer
	for _, node := range p.doc.Nodes {
		if err := html.Render(&buf, node); err != nil {
			return nil, fmt.Errorf("render document: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// Exists reports whether the selection holds at least one node.
func Exists(sel *goquery.Selection) bool {
	return sel != nil && sel.Length() > 0
}

// QueryIn finds the first element matching selector among the roots of scope or their descendants.
// Template clones are detached fragments whose top-level elements may carry the slot themselves.
func QueryIn(scope *goquery.Selection, selector string) *goquery.Selection {
	if match := scope.Filter(selector); match.Length() > 0 {
		return match.First()
	}
	return scope.Find(selector).First()
}

// CloneTemplate deep-copies the content of a <template> element.
func CloneTemplate(tmpl *goquery.Selection) *goquery.Selection {
	return tmpl.First().Contents().Clone()
}

// SetHidden toggles the hidden attribute on every element in sel.
func SetHidden(sel *goquery.Selection, hidden bool) {
	if hidden {
		sel.SetAttr(hiddenAttr, "")
		return
	}
	sel.RemoveAttr(hiddenAttr)
}

// IsHidden reports whether the first element in sel carries the hidden attribute.
func IsHidden(sel *goquery.Selection) bool {
	_, ok := sel.Attr(hiddenAttr)
	return ok
}

// SetLink points every anchor in sel at target. An empty target disables the
// link: href becomes "#" and aria-disabled="true" is set.
func SetLink(sel *goquery.Selection, target string) {
	if target == "" {
		sel.SetAttr("href", "#")
		sel.SetAttr(disabledAttr, "true")
		return
	}
	sel.SetAttr("href", target)
	sel.RemoveAttr(disabledAttr)
}

// IsDisabled reports whether the first element in sel is marked aria-disabled.
func IsDisabled(sel *goquery.Selection) bool {
	v, ok := sel.Attr(disabledAttr)
	return ok && v == "true"
}

// NewParagraph builds a detached <p> element holding text.
func NewParagraph(text string) *html.Node {
	p := &html.Node{Type: html.ElementNode, Data: atom.P.String(), DataAtom: atom.P}
	p.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return p
}
