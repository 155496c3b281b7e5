package fastloop

import "time"

// Rendering defaults.
const (
	// DefaultBatchSize is the number of items materialized per scheduling tick.
	DefaultBatchSize = 20

	// DefaultFrameInterval approximates one frame at 60fps. The interval
	// scheduler waits this long between batches.
	DefaultFrameInterval = 16 * time.Millisecond

	// DefaultContainerTag is the element created by NewContainer when no tag
	// is given.
	DefaultContainerTag = "div"
)

// ReservedIndexName is the placeholder name that substitutes the item's
// 1-based position instead of an item key. `{{index}}` at position 0 renders
// as "1".
const ReservedIndexName = "index"

// Lifecycle event names emitted by a Renderer.
const (
	EventRenderStart    = "render:start"
	EventRenderComplete = "render:complete"
	EventRenderError    = "render:error"
	EventDestroy        = "destroy"
)

// Metadata keys attached to errors.
const (
	MetaKeyKind     = "kind"
	MetaKeySelector = "selector"
	MetaKeyIndex    = "item_index"
	MetaKeyPath     = "path"
	MetaKeyType     = "type"
)

// Error kind metadata values, one per failure class.
const (
	KindContainer = "container"
	KindTemplate  = "template"
	KindData      = "data"
	KindRender    = "render"
)
