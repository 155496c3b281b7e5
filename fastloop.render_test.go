package fastloop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nghiaomg/go-fastloop/internal"
)

func namedItems(names ...string) []Item {
	items := make([]Item, len(names))
	for i, n := range names {
		items[i] = Item{"name": n}
	}
	return items
}

func TestRender_BatchSizeDoesNotChangeResult(t *testing.T) {
	data := namedItems("a", "b", "c", "d", "e", "f", "g")

	var want string
	for _, batchSize := range []int{1, 2, 3, 7, 100} {
		t.Run(fmt.Sprintf("batchSize=%d", batchSize), func(t *testing.T) {
			r, err := New(
				WithContainer(NewContainer("ul")),
				WithTemplate(TemplateString(`<li>{{index}}. {{name}}</li>`)),
				WithData(data),
				WithBatchSize(batchSize),
			)
			require.NoError(t, err)
			defer r.Destroy()

			got := containerHTML(t, r)
			if want == "" {
				want = got
				assert.True(t, strings.HasPrefix(got, `<li>1. a</li>`), "markup: %s", got)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestRender_UpdateDataRoundTrip(t *testing.T) {
	data := namedItems("A", "B", "C")
	r, err := New(
		WithContainer(NewContainer("ul")),
		WithTemplate(TemplateString(`<li>{{index}}: {{name}}</li>`)),
		WithData(data),
		WithReuseNodes(true),
	)
	require.NoError(t, err)
	defer r.Destroy()

	once := containerHTML(t, r)

	require.NoError(t, r.UpdateData(context.Background(), data))
	require.NoError(t, r.UpdateData(context.Background(), data))

	assert.Equal(t, once, containerHTML(t, r))
}

func TestRender_ReuseKeepsNodeIdentity(t *testing.T) {
	container := NewContainer("ul")
	r, err := New(
		WithContainer(container),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
		WithData(namedItems("a", "b", "c", "d", "e")),
		WithReuseNodes(true),
	)
	require.NoError(t, err)
	defer r.Destroy()

	before := internal.ElementChildren(container)
	require.Len(t, before, 5)

	// re-render with a shorter sequence removes exactly the trailing surplus
	require.NoError(t, r.UpdateData(context.Background(), namedItems("x", "y", "z")))

	after := internal.ElementChildren(container)
	require.Len(t, after, 3)
	for i := range after {
		assert.Same(t, before[i], after[i], "position %d should keep its node", i)
	}
	assert.Equal(t, "x", internal.Text(after[0]))
	assert.Nil(t, before[3].Parent)
	assert.Nil(t, before[4].Parent)
}

func TestRender_ReuseSurvivesMarkerAttribute(t *testing.T) {
	container := NewContainer("ul")
	r, err := New(
		WithContainer(container),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
		WithData(namedItems("a", "b")),
		WithReuseNodes(true),
	)
	require.NoError(t, err)
	defer r.Destroy()

	// marker node identity across the re-render, the way a caller holding an
	// external reference would
	marked := internal.ElementChildren(container)[0]

	require.NoError(t, r.UpdateData(context.Background(), namedItems("c", "d")))

	assert.Same(t, marked, internal.ElementChildren(container)[0])
	assert.Equal(t, "c", internal.Text(marked))
}

func TestRender_NoReuseRebuildsEverything(t *testing.T) {
	container := NewContainer("ul")
	r, err := New(
		WithContainer(container),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
		WithData(namedItems("a", "b")),
		WithReuseNodes(false),
	)
	require.NoError(t, err)
	defer r.Destroy()

	before := internal.ElementChildren(container)
	require.NoError(t, r.UpdateData(context.Background(), namedItems("a", "b")))
	after := internal.ElementChildren(container)

	require.Len(t, after, 2)
	for i := range after {
		assert.NotSame(t, before[i], after[i], "position %d should be a fresh node", i)
	}
}

func TestRender_GrowingDataAllocatesTail(t *testing.T) {
	container := NewContainer("ul")
	r, err := New(
		WithContainer(container),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
		WithData(namedItems("a")),
		WithReuseNodes(true),
	)
	require.NoError(t, err)
	defer r.Destroy()

	first := internal.ElementChildren(container)[0]
	require.NoError(t, r.UpdateData(context.Background(), namedItems("a", "b", "c")))

	kids := internal.ElementChildren(container)
	require.Len(t, kids, 3)
	assert.Same(t, first, kids[0])
	assert.Equal(t, "b", internal.Text(kids[1]))
	assert.Equal(t, "c", internal.Text(kids[2]))
}

func TestRender_EmptyData(t *testing.T) {
	container := NewContainer("ul")
	r, err := New(
		WithContainer(container),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
		WithData(namedItems("a", "b")),
		WithReuseNodes(true),
	)
	require.NoError(t, err)
	defer r.Destroy()

	require.NoError(t, r.UpdateData(context.Background(), nil))
	assert.Nil(t, container.FirstChild)
}

func TestRender_SkipsSlotsWithNoElementRoot(t *testing.T) {
	container := NewContainer("div")
	r, err := New(
		WithContainer(container),
		WithTemplate(TemplateString(`{{name}}`)),
		WithData([]Item{{"name": "no tags here"}, {"name": "<span>tagged</span>"}}),
	)
	require.NoError(t, err)
	defer r.Destroy()

	kids := internal.ElementChildren(container)
	require.Len(t, kids, 1)
	assert.Equal(t, "tagged", internal.Text(kids[0]))
}

func TestRender_CallbackReplacesSubstitution(t *testing.T) {
	container := NewContainer("ul")
	r, err := New(
		WithContainer(container),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
		WithData(namedItems("a", "b")),
		WithRenderFunc(func(template string, item Item, index int) (string, error) {
			return fmt.Sprintf(`<li data-idx="%d">%s!</li>`, index, item["name"]), nil
		}),
	)
	require.NoError(t, err)
	defer r.Destroy()

	markup := containerHTML(t, r)
	assert.Contains(t, markup, `<li data-idx="0">a!</li>`)
	assert.Contains(t, markup, `<li data-idx="1">b!</li>`)
}

func TestRender_CallbackErrorAbortsWithoutSwap(t *testing.T) {
	boom := errors.New("boom")
	for _, reuse := range []bool{false, true} {
		t.Run(fmt.Sprintf("reuse=%v", reuse), func(t *testing.T) {
			container := NewContainer("ul")
			r, err := New(
				WithContainer(container),
				WithTemplate(TemplateString(`<li>{{name}}</li>`)),
				WithData(namedItems("a", "b")),
				WithReuseNodes(reuse),
				WithRenderFunc(func(template string, item Item, index int) (string, error) {
					if fail, _ := item["fail"].(bool); fail {
						return "", boom
					}
					return internal.Substitute(template, item, index), nil
				}),
			)
			require.NoError(t, err)
			defer r.Destroy()
			before := containerHTML(t, r)
			assert.Contains(t, before, "<li>a</li>")

			var reported error
			r.On(EventRenderError, func(payload any) {
				reported, _ = payload.(error)
			})

			// position 0 succeeds before position 1 fails; nothing from the
			// aborted pass may reach the container, recycled nodes included
			next := namedItems("x", "y")
			next[1]["fail"] = true
			renderErr := r.UpdateData(context.Background(), next)
			require.Error(t, renderErr)
			assert.True(t, IsRenderError(renderErr))
			assert.True(t, errors.Is(renderErr, boom))
			assert.Equal(t, renderErr, reported)
			assert.Equal(t, before, containerHTML(t, r))
		})
	}
}

func TestRender_CallbackPanicBecomesRenderError(t *testing.T) {
	r, err := New(
		WithContainer(NewContainer("ul")),
		WithTemplate(TemplateString(`<li></li>`)),
		WithRenderFunc(func(template string, item Item, index int) (string, error) {
			panic("kaput")
		}),
	)
	require.NoError(t, err)
	defer r.Destroy()

	renderErr := r.UpdateData(context.Background(), namedItems("a"))
	require.Error(t, renderErr)
	assert.True(t, IsRenderError(renderErr))
	assert.Contains(t, renderErr.Error(), ErrMsgRenderFuncPanic)
}

func TestUpdatePayload_InvalidDataIsSoft(t *testing.T) {
	container := NewContainer("ul")
	r, err := New(
		WithContainer(container),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
		WithData(namedItems("a")),
		WithValidateData(true),
	)
	require.NoError(t, err)
	defer r.Destroy()
	before := containerHTML(t, r)

	// no error escapes and the container is not mutated
	assert.NoError(t, r.UpdatePayload(context.Background(), "not a sequence"))
	assert.Equal(t, before, containerHTML(t, r))
}

func TestRender_CancelledContextLeavesContainerUnchanged(t *testing.T) {
	for _, reuse := range []bool{false, true} {
		t.Run(fmt.Sprintf("reuse=%v", reuse), func(t *testing.T) {
			container := NewContainer("ul")
			r, err := New(
				WithContainer(container),
				WithTemplate(TemplateString(`<li>{{name}}</li>`)),
				WithData(namedItems("a", "b", "c", "d")),
				WithBatchSize(1),
				WithReuseNodes(reuse),
			)
			require.NoError(t, err)
			defer r.Destroy()
			before := containerHTML(t, r)

			// batch size 1 materializes position 0 before the first yield
			// notices the cancellation; the container must not show it
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			renderErr := r.UpdateData(ctx, namedItems("x", "y", "z", "w"))
			require.Error(t, renderErr)
			assert.True(t, errors.Is(renderErr, context.Canceled))
			assert.Equal(t, before, containerHTML(t, r))
		})
	}
}

func TestRender_ReleasesSessionAfterCommit(t *testing.T) {
	r, err := New(
		WithContainer(NewContainer("ul")),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
		WithData(namedItems("a")),
	)
	require.NoError(t, err)
	defer r.Destroy()

	require.NoError(t, r.Render(context.Background()))

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Nil(t, r.cancel, "a committed render should not keep its session cancel")
}

func TestRender_CallbackOutputNotTrimmed(t *testing.T) {
	raw := "\n  <li>raw</li>  "
	s := &session{
		renderFunc: func(template string, item Item, index int) (string, error) {
			return raw, nil
		},
		data: []Item{{}},
	}

	markup, err := s.markupFor(0)
	require.NoError(t, err)
	assert.Equal(t, raw, markup)
}

func TestRender_EventLifecycle(t *testing.T) {
	var events []string
	r, err := New(
		WithContainer(NewContainer("ul")),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
	)
	require.NoError(t, err)

	r.On(EventRenderStart, func(payload any) { events = append(events, EventRenderStart) })
	r.On(EventRenderComplete, func(payload any) { events = append(events, EventRenderComplete) })

	require.NoError(t, r.UpdateData(context.Background(), namedItems("a")))
	assert.Equal(t, []string{EventRenderStart, EventRenderComplete}, events)

	r.Destroy()
}

func TestRender_DeepDataCoercion(t *testing.T) {
	items, err := coerceItems([]map[string]any{{"name": "a"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0]["name"])

	_, err = coerceItems([]any{"not a mapping"})
	require.Error(t, err)
	assert.True(t, IsInvalidDataError(err))

	_, err = coerceItems(nil)
	require.Error(t, err)
	assert.True(t, IsInvalidDataError(err))
}

func TestRender_SanitizerStripsInjectedMarkup(t *testing.T) {
	// substitution is literal, so item values become markup; a sanitizer
	// policy hardens that path
	container := NewContainer("ul")
	r, err := New(
		WithContainer(container),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
		WithData([]Item{{"name": `<script>alert(1)</script>safe`}}),
		WithSanitizer(bluemonday.UGCPolicy()),
	)
	require.NoError(t, err)
	defer r.Destroy()

	markup := containerHTML(t, r)
	assert.NotContains(t, markup, "<script>")
	assert.Contains(t, markup, "safe")
}

func TestRender_NumericAndBoolValues(t *testing.T) {
	container := NewContainer("ul")
	r, err := New(
		WithContainer(container),
		WithTemplate(TemplateString(`<li>{{n}} {{ok}}</li>`)),
		WithData([]Item{{"n": 7, "ok": true}}),
	)
	require.NoError(t, err)
	defer r.Destroy()

	kids := internal.ElementChildren(container)
	require.Len(t, kids, 1)
	assert.Equal(t, "7 true", internal.Text(kids[0]))
}
