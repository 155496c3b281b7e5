package fastloop

import (
	"github.com/PuerkitoBio/goquery"
)

// Attach builds a Renderer over a goquery selection, mirroring the original
// plugin surface: the selection's first element becomes the container, and
// the remaining options configure the same rendering core used by New.
func Attach(sel *goquery.Selection, opts ...Option) (*Renderer, error) {
	if sel == nil || sel.Length() == 0 {
		return nil, NewInvalidContainerError(ErrMsgContainerNotFound)
	}
	withContainer := append([]Option{WithContainer(sel.Get(0))}, opts...)
	return New(withContainer...)
}

// AttachSelector resolves the container by CSS selector against doc and
// attaches a Renderer to the first match.
func AttachSelector(doc *goquery.Document, selector string, opts ...Option) (*Renderer, error) {
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return nil, NewContainerNotFoundError(selector)
	}
	return Attach(sel, opts...)
}

// TemplateSelector resolves a template element by CSS selector against doc,
// typically a <template> or <script type="text/template"> element. The first
// match's inner markup becomes the template.
func TemplateSelector(doc *goquery.Document, selector string) (TemplateSource, error) {
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return nil, NewTemplateNotFoundError(selector)
	}
	return TemplateNode(sel.Get(0)), nil
}
