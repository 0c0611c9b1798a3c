package willtest

import "github.com/iov-one/testament"

// Handler is a mock implementation of testament.Handler that returns
// preconfigured results and counts calls.
type Handler struct {
	checkCall   int
	CheckResult testament.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult testament.DeliverResult
	DeliverErr    error
}

var _ testament.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int   { return h.checkCall }
func (h *Handler) DeliverCallCount() int { return h.deliverCall }
func (h *Handler) CallCount() int        { return h.checkCall + h.deliverCall }

// Decorator is a mock implementation of testament.Decorator. When an
// error attribute is set it is returned without calling the wrapped
// handler.
type Decorator struct {
	checkCall   int
	CheckErr    error
	deliverCall int
	DeliverErr  error
}

var _ testament.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CallCount() int { return d.checkCall + d.deliverCall }

// Decorate returns a handler that calls h through d.
func Decorate(h testament.Handler, d testament.Decorator) testament.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn testament.Handler
	dc testament.Decorator
}

func (d *decoratedHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
