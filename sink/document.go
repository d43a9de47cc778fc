package sink

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultStyleAttribute marks the style element owned by the library.
const DefaultStyleAttribute = "data-stylo"

// Document appends CSS into a style element of a parsed HTML document. The
// element carrying the marker attribute is reused when present (for example
// one written by an earlier render), otherwise a new one is created at the
// end of <head> on first use.
type Document struct {
	log   *zap.Logger
	root  *html.Node
	attr  string
	style *html.Node
}

// ParseDocument reads HTML from r. Empty attr selects
// DefaultStyleAttribute.
func ParseDocument(r io.Reader, attr string, log *zap.Logger) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html document: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if attr == "" {
		attr = DefaultStyleAttribute
	}
	return &Document{log: log.Named("sink"), root: root, attr: attr}, nil
}

// NewDocument returns an empty HTML document.
func NewDocument(attr string, log *zap.Logger) *Document {
	// parsing empty input cannot fail, parser synthesizes html/head/body
	d, _ := ParseDocument(strings.NewReader(""), attr, log)
	return d
}

// Append implements Sink.
func (d *Document) Append(text string) error {
	if len(text) == 0 {
		return nil
	}
	style, err := d.styleElement(true)
	if err != nil {
		return err
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return nil
}

// Text returns current content of the marked style element, empty when it
// does not exist yet.
func (d *Document) Text() string {
	style, _ := d.styleElement(false)
	if style == nil {
		return ""
	}
	var sb strings.Builder
	for c := style.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// Render writes the whole document to w.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) styleElement(create bool) (*html.Node, error) {
	if d.style != nil {
		return d.style, nil
	}
	if found := find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Style && hasAttr(n, d.attr)
	}); found != nil {
		d.log.Debug("Reusing style element", zap.String("attr", d.attr))
		d.style = found
		return found, nil
	}
	if !create {
		return nil, nil
	}

	head := find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Head
	})
	if head == nil {
		return nil, errors.New("html document has no head element")
	}
	d.style = &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Style,
		Data:     "style",
		Attr: []html.Attribute{
			{Key: "type", Val: "text/css"},
			{Key: d.attr},
		},
	}
	head.AppendChild(d.style)
	d.log.Debug("Created style element", zap.String("attr", d.attr))
	return d.style, nil
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return true
		}
	}
	return false
}

// Bind replaces attribute attr on every element with a class name. resolve
// gets attribute value and returns class to add, false leaves the element
// untouched. Bind returns number of changed elements.
func (d *Document) Bind(attr string, resolve func(name string) (string, bool)) int {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasAttr(n, attr) {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)

	// resolving may append to the style element, so the tree is not walked
	// while it changes
	changed := 0
	for _, n := range nodes {
		name := attrValue(n, attr)
		class, ok := resolve(name)
		if !ok {
			d.log.Debug("Unknown style reference", zap.String("name", name))
			continue
		}
		addClass(n, class)
		removeAttr(n, attr)
		changed++
	}
	return changed
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func removeAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && strings.EqualFold(a.Key, key)
	})
}

func addClass(n *html.Node, class string) {
	if class == "" {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace != "" || a.Key != "class" {
			continue
		}
		if slices.Contains(strings.Fields(a.Val), class) {
			return
		}
		n.Attr[i].Val = strings.TrimSpace(a.Val + " " + class)
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
}
