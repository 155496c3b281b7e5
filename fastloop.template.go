package fastloop

import (
	"os"
	"strings"

	"github.com/itsatony/go-cuserr"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/nghiaomg/go-fastloop/internal"
)

// FrontmatterDelimiter is the standard YAML frontmatter delimiter in
// template files.
const FrontmatterDelimiter = "---"

// ErrMsgTemplateExtract is raised when an element reference cannot be
// serialized back to markup.
const ErrMsgTemplateExtract = "template markup could not be serialized"

// TemplateSource is where a Renderer's template markup comes from: either a
// literal string or a reference to an element whose inner markup is the
// template. Extraction runs once per Renderer lifetime and is cached, so
// mutations of a referenced element after construction are not observed.
type TemplateSource interface {
	extract() (string, error)
}

type stringSource string

func (s stringSource) extract() (string, error) {
	return string(s), nil
}

// TemplateString uses markup verbatim as the template.
func TemplateString(markup string) TemplateSource {
	return stringSource(markup)
}

type nodeSource struct {
	node *html.Node
}

// TemplateNode uses the inner markup of an element (typically a <template>
// or <script type="text/template"> node) as the template.
func TemplateNode(n *html.Node) TemplateSource {
	return nodeSource{node: n}
}

func (s nodeSource) extract() (string, error) {
	if !internal.IsElement(s.node) {
		return "", NewInvalidTemplateError(ErrMsgTemplateNotElem)
	}
	markup, err := internal.InnerHTML(s.node)
	if err != nil {
		return "", cuserr.WrapStdError(err, ErrCodeTemplate, ErrMsgTemplateExtract).
			WithMetadata(MetaKeyKind, KindTemplate)
	}
	return markup, nil
}

// templateFrontmatter is the YAML block a template file may open with.
// All fields are optional; absent fields leave construction defaults alone.
type templateFrontmatter struct {
	BatchSize    *int  `yaml:"batchSize"`
	ReuseNodes   *bool `yaml:"reuseNodes"`
	ValidateData *bool `yaml:"validateData"`
}

// LoadTemplateFile reads a template from disk. When the file opens with a
// `---` YAML frontmatter block, the block is decoded into construction
// options (batchSize, reuseNodes, validateData) and the remainder becomes
// the template body. Returned options should be passed to New ahead of any
// caller overrides.
func LoadTemplateFile(path string) (TemplateSource, []Option, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, NewTemplateReadError(path, err)
	}

	body, front := splitFrontmatter(string(raw))
	if front == "" {
		return TemplateString(strings.TrimSpace(body)), nil, nil
	}

	var fm templateFrontmatter
	if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
		return nil, nil, NewFrontmatterError(path, err)
	}

	var opts []Option
	if fm.BatchSize != nil {
		opts = append(opts, WithBatchSize(*fm.BatchSize))
	}
	if fm.ReuseNodes != nil {
		opts = append(opts, WithReuseNodes(*fm.ReuseNodes))
	}
	if fm.ValidateData != nil {
		opts = append(opts, WithValidateData(*fm.ValidateData))
	}
	return TemplateString(strings.TrimSpace(body)), opts, nil
}

// splitFrontmatter separates an optional leading frontmatter block from the
// template body. Returns the body and the raw YAML between the delimiters
// ("" when no frontmatter is present).
func splitFrontmatter(s string) (body, front string) {
	if !strings.HasPrefix(s, FrontmatterDelimiter+"\n") && s != FrontmatterDelimiter {
		return s, ""
	}
	rest := strings.TrimPrefix(s, FrontmatterDelimiter+"\n")
	end := strings.Index(rest, "\n"+FrontmatterDelimiter)
	if end < 0 {
		return s, ""
	}
	front = rest[:end]
	body = rest[end+len("\n"+FrontmatterDelimiter):]
	body = strings.TrimPrefix(body, "\n")
	return body, front
}
