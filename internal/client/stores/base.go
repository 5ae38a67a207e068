package stores

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dmitrijs2005/quizstate/internal/client/client"
	"github.com/dmitrijs2005/quizstate/internal/client/i18n"
	"github.com/dmitrijs2005/quizstate/internal/client/metrics"
	"github.com/dmitrijs2005/quizstate/internal/client/notify"
	"github.com/dmitrijs2005/quizstate/internal/logging"
)

// Translator resolves fixed message keys to user-facing text.
type Translator interface {
	T(key string) string
}

// Deps are the collaborators shared by every store. Only API is required.
type Deps struct {
	API        client.API
	Notifier   notify.Notifier
	Translator Translator
	Logger     logging.Logger
	Metrics    *metrics.Metrics
}

// base carries the plumbing common to all stores.
type base struct {
	name    string
	api     client.API
	notify  notify.Notifier
	tr      Translator
	log     logging.Logger
	metrics *metrics.Metrics
	loading atomic.Int32
}

func (b *base) init(name string, d Deps) {
	b.name = name
	b.api = d.API
	b.notify = d.Notifier
	b.tr = d.Translator
	b.log = d.Logger
	b.metrics = d.Metrics
	if b.tr == nil {
		b.tr = i18n.New("en")
	}
	if b.log == nil {
		b.log = logging.Nop()
	}
	b.log = b.log.With("store", name)
}

// Loading reports whether an action of this store is in flight. It is
// advisory; nothing is serialized by it.
func (b *base) Loading() bool {
	return b.loading.Load() > 0
}

func (b *base) begin() func() {
	b.loading.Add(1)
	return func() { b.loading.Add(-1) }
}

func (b *base) t(key string) string {
	return b.tr.T(key)
}

func (b *base) send(msg string, sev notify.Severity) {
	if b.notify != nil && msg != "" {
		b.notify.Notify(msg, sev)
	}
}

func (b *base) success(key string) {
	b.send(b.t(key), notify.Success)
}

// message picks the user-facing text for err: the server's reason when
// present, the unavailable text for transport failures, otherwise the
// generic text for the action.
func (b *base) message(err error, fallbackKey string) string {
	if msg, ok := client.ServerMessage(err); ok {
		return msg
	}
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return b.t(i18n.ErrNotAuthenticated)
	case errors.Is(err, ErrNoProfile):
		return b.t(i18n.ErrNoProfile)
	case errors.Is(err, ErrPurchaseInProgress):
		return b.t(i18n.ErrPurchaseBusy)
	case errors.Is(err, ErrEmptyUpdate):
		return b.t(i18n.ErrEmptyUpdate)
	case errors.Is(err, client.ErrUnavailable):
		return b.t(i18n.ErrUnavailable)
	}
	return b.t(fallbackKey)
}

// fail reports err to the user and returns it as an *ActionError.
func (b *base) fail(ctx context.Context, op, fallbackKey string, err error) *ActionError {
	ae := &ActionError{Op: op, Message: b.message(err, fallbackKey), Err: err}
	if !errors.Is(err, context.Canceled) {
		b.send(ae.Message, notify.Error)
	}
	b.log.Warn(ctx, "action failed", "op", op, "error", err)
	return ae
}

func (b *base) record(op, outcome string) {
	b.metrics.Transaction(b.name, op, outcome)
}
