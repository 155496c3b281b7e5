package fastloop

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adapterPage = `<!DOCTYPE html>
<html>
<body>
  <script type="text/template" id="user-row"><li class="user">{{index}}. {{name}}</li></script>
  <ul id="list"></ul>
  <div id="empty"></div>
</body>
</html>`

func adapterDoc(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(adapterPage))
	require.NoError(t, err)
	return doc
}

func TestAttach(t *testing.T) {
	doc := adapterDoc(t)

	r, err := Attach(doc.Find("#list"),
		WithTemplate(TemplateString(`<li>{{name}}</li>`)),
		WithData([]Item{{"name": "A"}}),
	)
	require.NoError(t, err)
	defer r.Destroy()

	assert.Equal(t, "A", doc.Find("#list li").Text())
}

func TestAttach_EmptySelection(t *testing.T) {
	doc := adapterDoc(t)

	_, err := Attach(doc.Find("#missing"),
		WithTemplate(TemplateString(`<li></li>`)),
	)
	require.Error(t, err)
	assert.True(t, IsInvalidContainerError(err))

	_, err = Attach(nil, WithTemplate(TemplateString(`<li></li>`)))
	require.Error(t, err)
	assert.True(t, IsInvalidContainerError(err))
}

func TestAttachSelector(t *testing.T) {
	doc := adapterDoc(t)

	tmpl, err := TemplateSelector(doc, "#user-row")
	require.NoError(t, err)

	r, err := AttachSelector(doc, "#list",
		WithTemplate(tmpl),
		WithData([]Item{{"name": "Alice"}, {"name": "Bob"}}),
	)
	require.NoError(t, err)
	defer r.Destroy()

	rows := doc.Find("#list li.user")
	require.Equal(t, 2, rows.Length())
	assert.Equal(t, "1. Alice", rows.First().Text())
	assert.Equal(t, "2. Bob", rows.Last().Text())
}

func TestAttachSelector_NotFound(t *testing.T) {
	doc := adapterDoc(t)

	_, err := AttachSelector(doc, "#missing",
		WithTemplate(TemplateString(`<li></li>`)),
	)
	require.Error(t, err)
	assert.True(t, IsInvalidContainerError(err))
	assert.Contains(t, err.Error(), ErrMsgContainerNotFound)
}

func TestTemplateSelector_NotFound(t *testing.T) {
	doc := adapterDoc(t)

	_, err := TemplateSelector(doc, "#missing-template")
	require.Error(t, err)
	assert.True(t, IsInvalidTemplateError(err))
}

func TestAttach_DataChannelUpdates(t *testing.T) {
	doc := adapterDoc(t)
	bus := NewBus()

	tmpl, err := TemplateSelector(doc, "#user-row")
	require.NoError(t, err)

	r, err := AttachSelector(doc, "#list",
		WithTemplate(tmpl),
		WithDataChannel(bus, "users"),
		WithReuseNodes(true),
	)
	require.NoError(t, err)

	bus.Publish("users", []Item{{"name": "Carol"}})
	assert.Equal(t, "1. Carol", doc.Find("#list li").Text())

	bus.Publish("users", []Item{{"name": "Dave"}, {"name": "Eve"}})
	assert.Equal(t, 2, doc.Find("#list li").Length())

	r.Destroy()
	assert.Equal(t, 0, doc.Find("#list li").Length())

	// updates after destroy are ignored
	bus.Publish("users", []Item{{"name": "Mallory"}})
	assert.Equal(t, 0, doc.Find("#list li").Length())
}
