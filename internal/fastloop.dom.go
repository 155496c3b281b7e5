// Package internal contains the node-tree plumbing and placeholder scanner
// backing the public fastloop API.
package internal

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement creates a detached element node for the given tag name.
func NewElement(tag string) *html.Node {
	a := atom.Lookup([]byte(tag))
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     tag,
	}
}

// IsElement reports whether n is a usable element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// ParseFragment parses markup as the content of an element with the given
// tag (the rendering container's tag, so li/tr/td fragments keep their
// shape) and returns the resulting top-level nodes, detached from any
// parent. An empty contextTag parses in div context.
func ParseFragment(markup, contextTag string) ([]*html.Node, error) {
	if contextTag == "" {
		contextTag = "div"
	}
	ctx := NewElement(contextTag)
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		Detach(n)
	}
	return nodes, nil
}

// FirstElement returns the first element node in nodes, or nil when the
// fragment has no element root.
func FirstElement(nodes []*html.Node) *html.Node {
	for _, n := range nodes {
		if IsElement(n) {
			return n
		}
	}
	return nil
}

// ElementChildren snapshots the element children of n in document order.
func ElementChildren(n *html.Node) []*html.Node {
	var kids []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			kids = append(kids, c)
		}
	}
	return kids
}

// Detach removes n from its parent, if any. Safe on already-detached nodes.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// AppendChildren detaches each node and appends it to parent in order.
func AppendChildren(parent *html.Node, nodes []*html.Node) {
	for _, c := range nodes {
		Detach(c)
		parent.AppendChild(c)
	}
}

// Adopt overwrites dst in place from src: dst keeps its identity (pointer,
// tag) while taking over src's attributes and children. Used for positional
// node reuse.
func Adopt(dst, src *html.Node) {
	dst.Attr = src.Attr
	RemoveChildren(dst)
	var kids []*html.Node
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		kids = append(kids, c)
	}
	AppendChildren(dst, kids)
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// Text collects the concatenated text content under n.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return b.String()
}
