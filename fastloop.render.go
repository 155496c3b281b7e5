package fastloop

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/nghiaomg/go-fastloop/internal"
)

// Render re-renders the current data into the container. A render already in
// flight is superseded: its session is cancelled before its next chunk and
// never commits. The returned error reports per-item render failures and
// context cancellation; in both cases the container keeps its pre-render
// contents.
func (r *Renderer) Render(ctx context.Context) error {
	r.mu.Lock()
	data := r.data
	r.mu.Unlock()
	return r.render(ctx, data)
}

// UpdateData replaces the data sequence and re-renders.
func (r *Renderer) UpdateData(ctx context.Context, data []Item) error {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return nil
	}
	r.data = data
	r.mu.Unlock()
	return r.render(ctx, data)
}

// UpdatePayload replaces the data from an untyped payload, as delivered by a
// data channel. With validation enabled an uncoercible payload is logged and
// the render skipped; no error escapes, deliberately softer than the
// construction-time policy. Without validation the payload renders as an
// empty sequence.
func (r *Renderer) UpdatePayload(ctx context.Context, payload any) error {
	items, err := coerceItems(payload)
	if err != nil {
		if r.validateData() {
			r.logger.Error("data update rejected", zap.Error(err))
			return nil
		}
		r.logger.Warn("data payload is not a sequence, rendering nothing", zap.Error(err))
		items = nil
	}
	return r.UpdateData(ctx, items)
}

// render runs one session over data and commits the result. Holding state:
// at most one session context is live per renderer; starting a new one
// cancels its predecessor, and a finished render releases its own.
func (r *Renderer) render(ctx context.Context, data []Item) error {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return nil
	}
	if r.cancel != nil {
		r.cancel()
	}
	sctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	defer cancel()

	rec := newRecycler(r.cfg.container, r.cfg.reuseNodes, r.cfg.sanitizer)
	sess := &session{
		template:   r.template,
		data:       data,
		renderFunc: r.cfg.renderFunc,
		batchSize:  r.cfg.batchSize,
		rec:        rec,
		sched:      r.cfg.scheduler,
		logger:     r.logger,
	}
	r.mu.Unlock()

	r.events.Emit(EventRenderStart, data)

	if err := sess.run(sctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			r.logger.Debug("render superseded or cancelled", zap.Error(err))
			return err
		}
		r.logger.Error("render aborted, container unchanged", zap.Error(err))
		r.events.Emit(EventRenderError, err)
		return err
	}

	r.mu.Lock()
	if r.destroyed || sctx.Err() != nil {
		err := sctx.Err()
		r.mu.Unlock()
		return err
	}
	r.commit(sess.fragment, rec, len(data))
	r.cancel = nil
	r.logger.Debug("render committed", zap.Int("nodes", len(sess.fragment)))
	r.mu.Unlock()

	r.events.Emit(EventRenderComplete, len(sess.fragment))
	return nil
}

// commit performs the single swap: recycled nodes take their queued new
// content, surplus recycled nodes leave the document, the container is
// cleared, and the finished fragment is attached in order. Live nodes are
// mutated nowhere else, which keeps an aborted render invisible. Callers
// hold r.mu.
func (r *Renderer) commit(fragment []*html.Node, rec *recycler, n int) {
	rec.adopt()
	for _, s := range rec.surplus(n) {
		internal.Detach(s)
	}
	internal.RemoveChildren(r.cfg.container)
	internal.AppendChildren(r.cfg.container, fragment)
}

// Destroy cancels any in-flight render, disposes the data-channel
// subscription, clears the container and all cached state, and finally drops
// registered handlers (after emitting the destroy event). Destroy is
// idempotent; render and update calls after Destroy are inert.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return
	}
	r.destroyed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	internal.RemoveChildren(r.cfg.container)
	r.template = ""
	r.data = nil
	r.mu.Unlock()

	r.events.Emit(EventDestroy, nil)
	r.events.Clear()
	r.logger.Debug("renderer destroyed")
}

// HTML serializes the container's current contents.
func (r *Renderer) HTML() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return internal.InnerHTML(r.cfg.container)
}

func (r *Renderer) validateData() bool {
	return r.cfg.validateData
}

// onBusPayload handles a data-channel notification.
func (r *Renderer) onBusPayload(payload any) {
	_ = r.UpdatePayload(context.Background(), payload)
}

// coerceItems converts an untyped payload into a sequence of items. Accepted
// shapes: []Item, []map[string]any, and []any whose elements are mappings.
func coerceItems(payload any) ([]Item, error) {
	switch v := payload.(type) {
	case []Item:
		return v, nil
	case []map[string]any:
		items := make([]Item, len(v))
		for i, m := range v {
			items[i] = Item(m)
		}
		return items, nil
	case []any:
		items := make([]Item, len(v))
		for i, el := range v {
			switch m := el.(type) {
			case Item:
				items[i] = m
			case map[string]any:
				items[i] = Item(m)
			default:
				return nil, NewInvalidDataError(fmt.Sprintf("%T", el))
			}
		}
		return items, nil
	case nil:
		return nil, NewInvalidDataError("nil")
	default:
		return nil, NewInvalidDataError(fmt.Sprintf("%T", payload))
	}
}
