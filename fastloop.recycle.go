package fastloop

import (
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/nghiaomg/go-fastloop/internal"
)

// recycler applies the positional node-reuse policy for one render session.
// The container's element children are captured once, before any mutation;
// reuse keys strictly by index position, never by item identity. Overwrites
// of kept nodes are recorded during the session and applied only at commit,
// so an aborted session leaves every live node untouched.
type recycler struct {
	reuse     bool
	existing  []*html.Node
	policy    *bluemonday.Policy
	ctxTag    string
	adoptions []adoption
}

// adoption pairs a kept live node with the freshly parsed element whose
// content replaces it at commit time.
type adoption struct {
	kept   *html.Node
	parsed *html.Node
}

func newRecycler(container *html.Node, reuse bool, policy *bluemonday.Policy) *recycler {
	r := &recycler{reuse: reuse, policy: policy, ctxTag: container.Data}
	if reuse {
		r.existing = internal.ElementChildren(container)
	}
	return r
}

// materialize produces the node for data position i from its substituted
// markup. With recycling enabled and an existing node at position i, that
// node keeps its identity and the parsed replacement is queued for adopt;
// otherwise the first element of the parsed fragment becomes the node. A
// fragment with no element root yields (nil, nil): the slot is skipped, not
// failed.
func (r *recycler) materialize(i int, markup string) (*html.Node, error) {
	if r.policy != nil {
		markup = r.policy.Sanitize(markup)
	}
	nodes, err := internal.ParseFragment(markup, r.ctxTag)
	if err != nil {
		return nil, err
	}
	el := internal.FirstElement(nodes)
	if el == nil {
		return nil, nil
	}
	if r.reuse && i < len(r.existing) {
		kept := r.existing[i]
		r.adoptions = append(r.adoptions, adoption{kept: kept, parsed: el})
		return kept, nil
	}
	return el, nil
}

// adopt performs the queued in-place overwrites. Only the commit path calls
// adopt; sessions that abort or are superseded never reach it.
func (r *recycler) adopt() {
	for _, a := range r.adoptions {
		internal.Adopt(a.kept, a.parsed)
	}
}

// surplus returns the captured nodes at positions >= n, the ones the new
// data no longer covers. Empty when recycling is disabled: without reuse
// there is no removal bookkeeping and every render rebuilds from scratch.
func (r *recycler) surplus(n int) []*html.Node {
	if !r.reuse || n >= len(r.existing) {
		return nil
	}
	return r.existing[n:]
}
