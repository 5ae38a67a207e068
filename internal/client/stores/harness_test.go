package stores

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/dmitrijs2005/quizstate/internal/client/client"
	"github.com/dmitrijs2005/quizstate/internal/client/i18n"
	"github.com/dmitrijs2005/quizstate/internal/client/metrics"
	"github.com/dmitrijs2005/quizstate/internal/client/models"
	"github.com/dmitrijs2005/quizstate/internal/client/notify"
	"github.com/dmitrijs2005/quizstate/internal/client/repositories/session"
	"github.com/dmitrijs2005/quizstate/internal/logging"
	"github.com/dmitrijs2005/quizstate/internal/testutil/fakeapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// ---- fake cache ----

type fakeCache struct {
	mu sync.Mutex

	snap session.Snapshot

	LoadErr         error
	SaveErr         error
	SaveIdentityErr error
	ClearErr        error

	saves  int
	clears int
}

func (c *fakeCache) Load(context.Context) (session.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.LoadErr != nil {
		return session.Snapshot{}, c.LoadErr
	}
	return c.copySnap(), nil
}

func (c *fakeCache) Save(_ context.Context, id models.Identity, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SaveErr != nil {
		return c.SaveErr
	}
	c.saves++
	c.snap = session.Snapshot{Identity: &id, Token: token}
	return nil
}

func (c *fakeCache) SaveIdentity(_ context.Context, id models.Identity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SaveIdentityErr != nil {
		return c.SaveIdentityErr
	}
	c.snap.Identity = &id
	return nil
}

func (c *fakeCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clears++
	if c.ClearErr != nil {
		return c.ClearErr
	}
	c.snap = session.Snapshot{}
	return nil
}

func (c *fakeCache) copySnap() session.Snapshot {
	out := session.Snapshot{Token: c.snap.Token, Partial: c.snap.Partial}
	if c.snap.Identity != nil {
		id := *c.snap.Identity
		out.Identity = &id
	}
	return out
}

func (c *fakeCache) Snapshot() session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copySnap()
}

// ---- harness ----

type harness struct {
	srv     *fakeapi.Server
	api     *client.HTTPClient
	cache   *fakeCache
	notes   *notify.ChannelNotifier
	metrics *metrics.Metrics

	session *Session
	user    *User
	shop    *Shop
	quiz    *Quiz
	admin   *Admin
	stats   *Stats
}

func newHarness(t *testing.T, cache *fakeCache) *harness {
	t.Helper()
	srv := fakeapi.New()
	t.Cleanup(srv.Close)

	if cache == nil {
		cache = &fakeCache{}
	}
	h := &harness{
		srv:     srv,
		cache:   cache,
		notes:   notify.NewChannelNotifier(64),
		metrics: metrics.New(),
	}
	h.api = client.NewHTTPClient(client.Options{BaseURL: srv.URL(), HTTPClient: srv.Client(), Metrics: h.metrics})

	d := Deps{
		API:        h.api,
		Notifier:   h.notes,
		Translator: i18n.New("en"),
		Logger:     logging.Nop(),
		Metrics:    h.metrics,
	}
	h.session = NewSession(context.Background(), d, cache)
	h.api.UseTokenSource(h.session)
	h.user = NewUser(d, h.session)
	h.shop = NewShop(d, h.user)
	h.quiz = NewQuiz(d)
	h.admin = NewAdmin(d)
	h.stats = NewStats(d)
	return h
}

// login seeds an account on the fake server and logs in as it.
func (h *harness) login(t *testing.T, id models.Identity) int64 {
	t.Helper()
	uid := h.srv.AddUser(id, "secret-hash")
	_, err := h.session.Login(context.Background(), id.DisplayName, "secret-hash")
	require.NoError(t, err)
	h.notes.Drain()
	return uid
}

// requireEconomyInStep checks the economy mirror against the session identity.
func (h *harness) requireEconomyInStep(t *testing.T) {
	t.Helper()
	id, ok := h.session.Identity()
	require.True(t, ok)
	eco, ok := h.user.Economy()
	require.True(t, ok)
	require.Equal(t, id.Economy(), eco)
}

func messages(ns []notify.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = string(n.Severity) + ": " + n.Message
	}
	return out
}

func (h *harness) metricsCounter(store, op, outcome string) prometheus.Collector {
	return h.metrics.TransactionCounter(store, op, outcome)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
