package fastloop

import (
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Option is a functional option for configuring a Renderer.
type Option func(*config)

// config holds the construction-time configuration of a Renderer. It is
// immutable after New returns.
type config struct {
	container    *html.Node
	template     TemplateSource
	data         []Item
	payload      any
	payloadSet   bool
	renderFunc   RenderFunc
	validateData bool
	batchSize    int
	reuseNodes   bool
	scheduler    FrameScheduler
	sanitizer    *bluemonday.Policy
	logger       *zap.Logger
	bus          *Bus
	topic        string
}

// defaultConfig returns the default renderer configuration.
func defaultConfig() *config {
	return &config{
		batchSize: DefaultBatchSize,
		scheduler: NewImmediateScheduler(),
	}
}

// WithContainer sets the element whose children the renderer owns.
func WithContainer(n *html.Node) Option {
	return func(c *config) {
		c.container = n
	}
}

// WithTemplate sets the template source.
func WithTemplate(src TemplateSource) Option {
	return func(c *config) {
		c.template = src
	}
}

// WithData sets the initial data sequence.
func WithData(data []Item) Option {
	return func(c *config) {
		c.data = data
	}
}

// WithPayload sets the initial data from an untyped payload, as delivered by
// a data channel. The payload is coerced to a sequence of items at
// construction; with WithValidateData(true) an uncoercible payload fails
// construction.
func WithPayload(payload any) Option {
	return func(c *config) {
		c.payload = payload
		c.payloadSet = true
	}
}

// WithRenderFunc replaces the built-in placeholder substitution for all
// items. The callback receives the cached template, the item, and its
// 0-based position and must return the item's markup.
func WithRenderFunc(fn RenderFunc) Option {
	return func(c *config) {
		c.renderFunc = fn
	}
}

// WithValidateData enables data validation. Invalid payloads fail
// construction; at render time they are logged and the render is skipped.
// Default: false
func WithValidateData(on bool) Option {
	return func(c *config) {
		c.validateData = on
	}
}

// WithBatchSize sets how many items are materialized per scheduling tick.
// Values below 1 are ignored.
// Default: 20
func WithBatchSize(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.batchSize = n
		}
	}
}

// WithReuseNodes enables positional node recycling across renders.
// Default: false
func WithReuseNodes(on bool) Option {
	return func(c *config) {
		c.reuseNodes = on
	}
}

// WithScheduler sets the cooperative scheduler granting ticks between
// batches.
// Default: immediate (no delay between batches)
func WithScheduler(s FrameScheduler) Option {
	return func(c *config) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithSanitizer applies a bluemonday policy to each item's substituted
// markup before node materialization.
// Default: nil (no sanitization)
func WithSanitizer(p *bluemonday.Policy) Option {
	return func(c *config) {
		c.sanitizer = p
	}
}

// WithLogger sets the logger for the renderer.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithDataChannel subscribes the renderer to a bus topic at construction.
// Each published payload is treated as a replacement data sequence. The
// subscription is disposed by Destroy.
func WithDataChannel(bus *Bus, topic string) Option {
	return func(c *config) {
		c.bus = bus
		c.topic = topic
	}
}
