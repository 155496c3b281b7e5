package fastloop

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/nghiaomg/go-fastloop/internal"
)

// session is one resumable render pass over a data sequence. It owns the
// per-render state: the data snapshot, the recycler, the off-tree fragment
// under construction, and the batch cursor. Cancelling the context stops the
// session before its next chunk; a stopped session never commits.
type session struct {
	template   string
	data       []Item
	renderFunc RenderFunc
	batchSize  int
	rec        *recycler
	sched      FrameScheduler
	logger     *zap.Logger

	fragment []*html.Node
	cursor   int
}

// run drives batches to completion. Between chunks the session yields to the
// scheduler; within a chunk all work is synchronous. The final fragment is
// identical regardless of batch size.
func (s *session) run(ctx context.Context) error {
	for s.cursor < len(s.data) {
		end := s.cursor + s.batchSize
		if end > len(s.data) {
			end = len(s.data)
		}
		if err := s.batch(s.cursor, end); err != nil {
			return err
		}
		s.cursor = end
		if s.cursor < len(s.data) {
			if err := s.sched.Wait(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// batch materializes the nodes for positions [start, end) and appends them
// to the fragment.
func (s *session) batch(start, end int) error {
	s.logger.Debug("processing batch",
		zap.Int("start", start),
		zap.Int("end", end),
		zap.Int("total", len(s.data)))

	for i := start; i < end; i++ {
		markup, err := s.markupFor(i)
		if err != nil {
			return err
		}
		node, err := s.rec.materialize(i, markup)
		if err != nil {
			return NewRenderError(ErrMsgMaterializeNode, i, err)
		}
		if node == nil {
			// markup had no element root; slot skipped
			continue
		}
		s.fragment = append(s.fragment, node)
	}
	return nil
}

// markupFor produces the markup for position i, via the configured render
// callback when present, otherwise via placeholder substitution. Callback
// output is passed through verbatim; only the substituter trims. A panicking
// callback surfaces as a render error rather than unwinding the session.
func (s *session) markupFor(i int) (markup string, err error) {
	if s.renderFunc == nil {
		return internal.Substitute(s.template, s.data[i], i), nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = NewRenderError(ErrMsgRenderFuncPanic, i, fmt.Errorf("%v", r))
		}
	}()
	out, cbErr := s.renderFunc(s.template, s.data[i], i)
	if cbErr != nil {
		return "", NewRenderError(ErrMsgRenderFuncFailed, i, cbErr)
	}
	return out, nil
}
