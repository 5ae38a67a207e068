package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/quizstate/internal/client/client"
	"github.com/dmitrijs2005/quizstate/internal/client/config"
	"github.com/dmitrijs2005/quizstate/internal/client/i18n"
	"github.com/dmitrijs2005/quizstate/internal/client/metrics"
	"github.com/dmitrijs2005/quizstate/internal/client/notify"
	"github.com/dmitrijs2005/quizstate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/quizstate/internal/client/repositories/session"
	"github.com/dmitrijs2005/quizstate/internal/client/stores"
	"github.com/dmitrijs2005/quizstate/internal/logging"
	"github.com/go-redis/redis/v8"
)

const notificationBuffer = 64

type App struct {
	config  *config.Config
	log     logging.Logger
	metrics *metrics.Metrics
	notes   *notify.ChannelNotifier

	session *stores.Session
	user    *stores.User
	shop    *stores.Shop
	quiz    *stores.Quiz
	admin   *stores.Admin
	stats   *stores.Stats

	reader  *bufio.Reader
	out     io.Writer
	closers []func() error
}

// NewApp opens the durable cache, builds the API client and constructs the
// stores in dependency order.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	kv, closeKV, err := openCache(ctx, c)
	if err != nil {
		logger.Error(ctx, "error initializing cache", "backend", c.CacheBackend, "error", err)
		return nil, err
	}

	m := metrics.New()
	api := client.NewHTTPClient(client.Options{
		BaseURL:           c.APIBaseURL,
		Timeout:           c.RequestTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Metrics:           m,
	})

	a := newApp(ctx, c, api, kv, logger, m, os.Stdin, os.Stdout)
	a.closers = append(a.closers, closeKV)
	if s, ok := logger.(interface{ Sync() error }); ok {
		a.closers = append(a.closers, s.Sync)
	}
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, api *client.HTTPClient, kv metadata.Repository,
	logger logging.Logger, m *metrics.Metrics, in io.Reader, out io.Writer) *App {

	notes := notify.NewChannelNotifier(notificationBuffer)
	var n notify.Notifier = notes
	if strings.EqualFold(c.LogLevel, "debug") {
		n = notify.Multi{notes, notify.NewLogNotifier(logger)}
	}

	d := stores.Deps{
		API:        api,
		Notifier:   n,
		Translator: i18n.New(c.Locale),
		Logger:     logger,
		Metrics:    m,
	}

	sess := stores.NewSession(ctx, d, session.NewRepository(kv))
	api.UseTokenSource(sess)
	user := stores.NewUser(d, sess)

	return &App{
		config:  c,
		log:     logger,
		metrics: m,
		notes:   notes,
		session: sess,
		user:    user,
		shop:    stores.NewShop(d, user),
		quiz:    stores.NewQuiz(d),
		admin:   stores.NewAdmin(d),
		stats:   stores.NewStats(d),
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

func openCache(ctx context.Context, c *config.Config) (metadata.Repository, func() error, error) {
	switch c.CacheBackend {
	case config.CacheRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", c.RedisAddr, err)
		}
		return metadata.NewRedisRepository(rdb, metadata.DefaultRedisPrefix), rdb.Close, nil
	default:
		db, err := client.InitDatabase(ctx, c.CacheDSN)
		if err != nil {
			return nil, nil, err
		}
		return metadata.NewSQLiteRepository(db), db.Close, nil
	}
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warn(ctx, "shutdown", "error", err)
		}
	}()
	a.Root(ctx)
}

// Close releases the durable cache and flushes the logger.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) isAdmin() bool {
	return a.session.IsAdmin()
}

// flushNotifications prints every notification queued by the stores since
// the previous command.
func (a *App) flushNotifications() {
	for _, n := range a.notes.Drain() {
		fmt.Fprintf(a.out, "[%s] %s\n", n.Severity, n.Message)
	}
}
