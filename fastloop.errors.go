package fastloop

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Construction errors
	ErrMsgNilContainer      = "container is missing"
	ErrMsgContainerNotElem  = "container is not an element node"
	ErrMsgContainerNotFound = "container selector matched no element"
	ErrMsgNilTemplate       = "template source is missing"
	ErrMsgTemplateNotElem   = "template reference is not an element node"
	ErrMsgTemplateNotFound  = "template selector matched no element"
	ErrMsgTemplateRead      = "template file could not be read"
	ErrMsgFrontmatterDecode = "template frontmatter could not be decoded"

	// Data errors
	ErrMsgDataNotSequence = "data is not a sequence of items"

	// Render errors
	ErrMsgRenderFuncFailed = "render callback failed"
	ErrMsgRenderFuncPanic  = "render callback panicked"
	ErrMsgMaterializeNode  = "node could not be materialized"
)

// Error code constants for categorization
const (
	ErrCodeContainer = "FASTLOOP_CONTAINER"
	ErrCodeTemplate  = "FASTLOOP_TEMPLATE"
	ErrCodeData      = "FASTLOOP_DATA"
	ErrCodeRender    = "FASTLOOP_RENDER"
)

// NewInvalidContainerError creates a construction error for an unusable
// container reference.
func NewInvalidContainerError(msg string) error {
	return cuserr.NewValidationError(ErrCodeContainer, msg).
		WithMetadata(MetaKeyKind, KindContainer)
}

// NewContainerNotFoundError creates an error for a selector that resolved to
// no element.
func NewContainerNotFoundError(selector string) error {
	return cuserr.NewValidationError(ErrCodeContainer, ErrMsgContainerNotFound).
		WithMetadata(MetaKeyKind, KindContainer).
		WithMetadata(MetaKeySelector, selector)
}

// NewInvalidTemplateError creates a construction error for an unusable
// template source.
func NewInvalidTemplateError(msg string) error {
	return cuserr.NewValidationError(ErrCodeTemplate, msg).
		WithMetadata(MetaKeyKind, KindTemplate)
}

// NewTemplateNotFoundError creates an error for a template selector that
// resolved to no element.
func NewTemplateNotFoundError(selector string) error {
	return cuserr.NewValidationError(ErrCodeTemplate, ErrMsgTemplateNotFound).
		WithMetadata(MetaKeyKind, KindTemplate).
		WithMetadata(MetaKeySelector, selector)
}

// NewTemplateReadError wraps a filesystem error from template loading.
func NewTemplateReadError(path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeTemplate, ErrMsgTemplateRead).
		WithMetadata(MetaKeyKind, KindTemplate).
		WithMetadata(MetaKeyPath, path)
}

// NewFrontmatterError wraps a YAML decode error from template frontmatter.
func NewFrontmatterError(path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeTemplate, ErrMsgFrontmatterDecode).
		WithMetadata(MetaKeyKind, KindTemplate).
		WithMetadata(MetaKeyPath, path)
}

// NewInvalidDataError creates an error for a payload that is not a sequence
// of items. Under validateData this error is logged and the render is
// skipped; it never escapes the render boundary.
func NewInvalidDataError(payloadType string) error {
	return cuserr.NewValidationError(ErrCodeData, ErrMsgDataNotSequence).
		WithMetadata(MetaKeyKind, KindData).
		WithMetadata(MetaKeyType, payloadType)
}

// NewRenderError wraps a failure raised while producing markup or
// materializing the node for one item.
func NewRenderError(msg string, index int, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeRender, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeRender, msg)
	}
	return err.
		WithMetadata(MetaKeyKind, KindRender).
		WithMetadata(MetaKeyIndex, strconv.Itoa(index))
}

// errorKind extracts the kind metadata from a fastloop error, or "".
func errorKind(err error) string {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return ""
	}
	kind, ok := customErr.GetMetadata(MetaKeyKind)
	if !ok {
		return ""
	}
	return kind
}

// IsInvalidContainerError reports whether err is a container construction error.
func IsInvalidContainerError(err error) bool {
	return errorKind(err) == KindContainer
}

// IsInvalidTemplateError reports whether err is a template construction error.
func IsInvalidTemplateError(err error) bool {
	return errorKind(err) == KindTemplate
}

// IsInvalidDataError reports whether err is a data validation error.
func IsInvalidDataError(err error) bool {
	return errorKind(err) == KindData
}

// IsRenderError reports whether err is a per-item render failure.
func IsRenderError(err error) bool {
	return errorKind(err) == KindRender
}
