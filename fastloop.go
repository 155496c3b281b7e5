// Package fastloop renders a sequence of data items into the children of a
// container element, using flat {{key}} placeholder substitution, optional
// batching across scheduler ticks, and optional positional node recycling.
//
// The container is an element in an in-memory HTML node tree
// (golang.org/x/net/html); a goquery adapter (Attach) resolves containers
// and templates by CSS selector over the same rendering core.
//
// # Basic Usage
//
//	container := fastloop.NewContainer("ul")
//	r, err := fastloop.New(
//	    fastloop.WithContainer(container),
//	    fastloop.WithTemplate(fastloop.TemplateString(`<li>{{index}}. {{name}}</li>`)),
//	    fastloop.WithData([]fastloop.Item{{"name": "Alice"}, {"name": "Bob"}}),
//	)
//	// container now holds <li>1. Alice</li><li>2. Bob</li>
//
// # Placeholders
//
// Exactly {{identifier}} where identifier is one or more word characters.
// The reserved name "index" substitutes the item's 1-based position. Absent
// keys and nil values substitute the empty string. There are no loops,
// conditionals, filters, or escape syntax.
//
// # Batching and Recycling
//
// WithBatchSize bounds the synchronous work done per scheduler tick; the
// final result is identical for every batch size. WithReuseNodes(true)
// recycles existing child nodes by position across renders, preserving node
// identity for unchanged positions and removing surplus trailing nodes.
//
// # Data Channels
//
// A renderer constructed with WithDataChannel subscribes to a Bus topic and
// treats each published payload as a replacement data sequence:
//
//	bus := fastloop.NewBus()
//	r, _ := fastloop.New(
//	    fastloop.WithContainer(container),
//	    fastloop.WithTemplate(tmpl),
//	    fastloop.WithDataChannel(bus, "users"),
//	)
//	bus.Publish("users", []fastloop.Item{{"name": "Carol"}})
//
// Once a render commits, external code may read or mutate the container
// subtree; the renderer only owns it between renders. Mutating the container
// concurrently with an in-flight render is not supported.
package fastloop

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/nghiaomg/go-fastloop/internal"
)

// Item is one renderable data item: an opaque mapping from placeholder names
// to displayable values. Values are coerced to text at the substitution
// boundary; no schema is enforced.
type Item map[string]any

// RenderFunc produces the markup for one item, replacing the built-in
// placeholder substitution for all items when configured. It receives the
// cached template string, the item, and its 0-based position.
type RenderFunc func(template string, item Item, index int) (string, error)

// Renderer renders data items into a container element. Construction
// validates the configuration and performs one initial render; afterwards
// the renderer may be re-rendered any number of times via Render,
// UpdateData, or data-channel notifications, until Destroy.
type Renderer struct {
	cfg      *config
	template string // extracted once, cached for the instance lifetime
	logger   *zap.Logger
	events   *emitter

	mu          sync.Mutex
	data        []Item
	cancel      context.CancelFunc
	unsubscribe func()
	destroyed   bool
}

// New creates a Renderer and performs the initial render. Construction fails
// with an invalid-container, invalid-template, or (under validation)
// invalid-data error; a failure of the initial render itself is logged and
// reported through the render:error event but leaves the renderer usable.
func New(opts ...Option) (*Renderer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.container == nil {
		return nil, NewInvalidContainerError(ErrMsgNilContainer)
	}
	if !internal.IsElement(cfg.container) {
		return nil, NewInvalidContainerError(ErrMsgContainerNotElem)
	}
	if cfg.template == nil {
		return nil, NewInvalidTemplateError(ErrMsgNilTemplate)
	}

	tmpl, err := cfg.template.extract()
	if err != nil {
		return nil, err
	}

	data := cfg.data
	if cfg.payloadSet {
		items, err := coerceItems(cfg.payload)
		if err != nil {
			if cfg.validateData {
				return nil, err
			}
			logger.Warn("initial payload is not a sequence, starting empty", zap.Error(err))
			items = nil
		}
		data = items
	}

	r := &Renderer{
		cfg:      cfg,
		template: tmpl,
		logger:   logger,
		events:   newEmitter(),
		data:     data,
	}

	if cfg.bus != nil && cfg.topic != "" {
		r.unsubscribe = cfg.bus.Subscribe(cfg.topic, r.onBusPayload)
	}

	if err := r.render(context.Background(), data); err != nil {
		logger.Error("initial render failed", zap.Error(err))
	}
	return r, nil
}

// MustNew creates a Renderer and panics if construction fails.
func MustNew(opts ...Option) *Renderer {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// NewContainer creates a detached container element. An empty tag creates a
// div.
func NewContainer(tag string) *html.Node {
	if tag == "" {
		tag = DefaultContainerTag
	}
	return internal.NewElement(tag)
}

// Container returns the element the renderer mounts into.
func (r *Renderer) Container() *html.Node {
	return r.cfg.container
}

// Template returns the cached template string ("" after Destroy).
func (r *Renderer) Template() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.template
}

// Data returns the current data sequence.
func (r *Renderer) Data() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// Destroyed reports whether Destroy has run.
func (r *Renderer) Destroyed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

// On registers a handler for a renderer event. Lifecycle events are emitted
// under the EventRender* and EventDestroy names; callers may emit and listen
// for their own event names as well.
func (r *Renderer) On(event string, h Handler) {
	r.events.On(event, h)
}

// Off removes a handler registered with On, matched by function identity.
func (r *Renderer) Off(event string, h Handler) {
	r.events.Off(event, h)
}

// Emit synchronously invokes the handlers for event in registration order.
// One handler's panic aborts the remaining invocations; handlers are not
// isolated from each other.
func (r *Renderer) Emit(event string, payload any) {
	r.events.Emit(event, payload)
}
