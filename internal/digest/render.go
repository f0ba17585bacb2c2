package digest

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// appendElement adds <a>text</a> under parent and returns the new element
func appendElement(parent *html.Node, a atom.Atom, text string) *html.Node {
	n := element(a)
	if text != "" {
		n.AppendChild(textNode(text))
	}
	parent.AppendChild(n)
	return n
}

// appendField adds <p><strong>name:</strong> value</p>
func appendField(parent *html.Node, name, value string) *html.Node {
	p := element(atom.P)
	appendElement(p, atom.Strong, name+":")
	p.AppendChild(textNode(" " + value))
	parent.AppendChild(p)
	return p
}

// appendLinkField adds <p><strong>name:</strong> <a href="href">href</a></p>
func appendLinkField(parent *html.Node, name, href string) {
	p := element(atom.P)
	appendElement(p, atom.Strong, name+":")
	p.AppendChild(textNode(" "))
	a := element(atom.A, html.Attribute{Key: "href", Val: href})
	a.AppendChild(textNode(href))
	p.AppendChild(a)
	parent.AppendChild(p)
}

// appendParagraphs splits text on blank lines into <p> elements
func appendParagraphs(parent *html.Node, text string) {
	for _, para := range strings.Split(text, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			appendElement(parent, atom.P, para)
		}
	}
}

// newDocument returns the document root and its <body>
func newDocument(title string) (*html.Node, *html.Node) {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	appendElement(head, atom.Title, title)
	body := element(atom.Body)

	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)
	return doc, body
}

func render(doc *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
