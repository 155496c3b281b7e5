package fastloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter_OnEmit(t *testing.T) {
	e := newEmitter()

	var got []any
	e.On("ping", func(payload any) { got = append(got, payload) })

	e.Emit("ping", 1)
	e.Emit("ping", 2)
	e.Emit("other", 3)

	assert.Equal(t, []any{1, 2}, got)
}

func TestEmitter_RegistrationOrder(t *testing.T) {
	e := newEmitter()

	var order []string
	e.On("evt", func(any) { order = append(order, "first") })
	e.On("evt", func(any) { order = append(order, "second") })
	e.On("evt", func(any) { order = append(order, "third") })

	e.Emit("evt", nil)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestEmitter_Off(t *testing.T) {
	e := newEmitter()

	calls := 0
	h := Handler(func(any) { calls++ })
	e.On("evt", h)
	e.On("evt", func(any) {})
	require.Equal(t, 2, e.Count("evt"))

	e.Off("evt", h)
	assert.Equal(t, 1, e.Count("evt"))

	e.Emit("evt", nil)
	assert.Zero(t, calls)

	// removing the last handler drops the event entry
	e.Clear()
	assert.Zero(t, e.Count("evt"))
}

func TestEmitter_NilHandlersIgnored(t *testing.T) {
	e := newEmitter()
	e.On("evt", func(any) {})

	assert.NotPanics(t, func() {
		e.Off("evt", nil)
		e.On("evt", nil)
		e.Off("missing", Handler(func(any) {}))
	})
	assert.Equal(t, 1, e.Count("evt"))
}

func TestRenderer_CustomEvents(t *testing.T) {
	r := MustNew(
		WithContainer(NewContainer("")),
		WithTemplate(TemplateString(`<div></div>`)),
	)
	defer r.Destroy()

	var payload any
	h := Handler(func(p any) { payload = p })
	r.On("selection:changed", h)
	r.Emit("selection:changed", "row-3")
	assert.Equal(t, "row-3", payload)

	r.Off("selection:changed", h)
	r.Emit("selection:changed", "row-4")
	assert.Equal(t, "row-3", payload)
}

func TestRenderer_DestroyClearsHandlers(t *testing.T) {
	r := MustNew(
		WithContainer(NewContainer("")),
		WithTemplate(TemplateString(`<div></div>`)),
	)

	calls := 0
	r.On("evt", func(any) { calls++ })
	r.Destroy()

	r.Emit("evt", nil)
	assert.Zero(t, calls)
}
