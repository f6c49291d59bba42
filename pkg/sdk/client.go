package ocrdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/ocrdesk/internal/db/redis"
	"github.com/kailas-cloud/ocrdesk/internal/domain/detail"
	domdoc "github.com/kailas-cloud/ocrdesk/internal/domain/document"
	"github.com/kailas-cloud/ocrdesk/internal/domain/listing"
	domstats "github.com/kailas-cloud/ocrdesk/internal/domain/stats"
	"github.com/kailas-cloud/ocrdesk/internal/domain/upload"
	authrepo "github.com/kailas-cloud/ocrdesk/internal/repository/auth"
	documentrepo "github.com/kailas-cloud/ocrdesk/internal/repository/document"
	"github.com/kailas-cloud/ocrdesk/internal/repository/token"
	"github.com/kailas-cloud/ocrdesk/internal/session"
	"github.com/kailas-cloud/ocrdesk/internal/transport/api"
	authuc "github.com/kailas-cloud/ocrdesk/internal/usecase/auth"
	collectionuc "github.com/kailas-cloud/ocrdesk/internal/usecase/collection"
	detailuc "github.com/kailas-cloud/ocrdesk/internal/usecase/detail"
	statsuc "github.com/kailas-cloud/ocrdesk/internal/usecase/stats"
	uploaduc "github.com/kailas-cloud/ocrdesk/internal/usecase/upload"
	"github.com/kailas-cloud/ocrdesk/internal/version"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped out in tests.
type authUseCase interface {
	Login(ctx context.Context, email, password string) (authrepo.User, error)
	Register(ctx context.Context, r authuc.Registration) (authrepo.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (authrepo.User, error)
}

type uploadUseCase interface {
	Select(files []upload.File) ([]upload.Candidate, error)
	Remove(index int) error
	Candidates() []upload.Candidate
	Progress() []uploaduc.Progress
	Launch(ctx context.Context) (upload.Report, error)
}

type collectionUseCase interface {
	Snapshot() listing.Snapshot
	Fetch(ctx context.Context) error
	Refresh(ctx context.Context) error
	SetPage(ctx context.Context, page int) error
	SetPageSize(ctx context.Context, size int) error
	SetSearch(ctx context.Context, search string) error
	Delete(ctx context.Context, id, title string) error
}

type statsUseCase interface {
	Counts() domstats.Counts
	Refresh(ctx context.Context) (domstats.Counts, error)
}

type detailUseCase interface {
	Load(ctx context.Context, id string) detail.View
}

type documentSearcher interface {
	Search(ctx context.Context, text string) ([]domdoc.Document, error)
}

// Client is the ocrdesk SDK entry point.
type Client struct {
	session   *session.Session
	closer    func()
	authSvc   authUseCase
	uploadSvc uploadUseCase
	collSvc   collectionUseCase
	statsSvc  statsUseCase
	detailSvc detailUseCase
	searcher  documentSearcher
	obs       *observer
}

// New creates a Client and restores a previously saved session.
// The provided context is used for store readiness and session restore.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		userAgent: version.UserAgent("ocrdesk-sdk"),
		pageSize:  listing.DefaultPageSize,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.baseURL == "" {
		return nil, errors.New("ocrdesk: base URL required (use WithBaseURL)")
	}
	if !listing.ValidPageSize(cfg.pageSize) {
		return nil, fmt.Errorf("ocrdesk: page size must be one of %v, got %d", listing.PageSizes, cfg.pageSize)
	}
	if cfg.searchDebounce < 0 {
		return nil, errors.New("ocrdesk: search debounce must be >= 0")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	store, closer, err := createTokenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sess := session.New(store, cfg.logger)
	if err := sess.Restore(ctx); err != nil {
		closer()
		return nil, fmt.Errorf("ocrdesk: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		closer()
		return nil, err
	}

	c, err := wireClient(sess, cfg, obs)
	if err != nil {
		closer()
		return nil, err
	}
	c.closer = closer
	return c, nil
}

func createTokenStore(ctx context.Context, cfg *clientConfig) (session.TokenStore, func(), error) {
	nop := func() {}
	switch cfg.sessionKind {
	case sessionMemory:
		return &session.MemoryStore{}, nop, nil
	case sessionCustom:
		if cfg.tokenStore == nil {
			return nil, nil, errors.New("ocrdesk: token store is nil")
		}
		return cfg.tokenStore, nop, nil
	case sessionFile:
		path := cfg.sessionPath
		if path == "" {
			p, err := token.DefaultPath()
			if err != nil {
				return nil, nil, fmt.Errorf("ocrdesk: session path: %w", err)
			}
			path = p
		}
		return token.NewFile(path), nop, nil
	case sessionValkey:
		if len(cfg.valkeyAddrs) == 0 {
			return nil, nil, errors.New("ocrdesk: valkey address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.valkeyAddrs,
			Username: cfg.valkeyUser,
			Password: cfg.valkeyPass,
			DB:       cfg.valkeyDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("ocrdesk: create valkey store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("ocrdesk: valkey not ready: %w", err)
		}
		return token.NewKV(s, cfg.sessionKey, cfg.sessionTTL), s.Close, nil
	default:
		return nil, nil, fmt.Errorf("ocrdesk: unknown session store %d", cfg.sessionKind)
	}
}

func wireClient(sess *session.Session, cfg *clientConfig, obs *observer) (*Client, error) {
	apiClient, err := api.New(api.Config{
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		UserAgent:  cfg.userAgent,
		HTTPClient: cfg.httpClient,
		Logger:     cfg.logger,
	}, sess)
	if err != nil {
		return nil, fmt.Errorf("ocrdesk: %w", err)
	}

	notifier := cfg.notifier
	if notifier == nil {
		notifier = NotifyFunc(func(Notification) {})
	}
	confirmer := cfg.confirmer
	if confirmer == nil {
		confirmer = collectionuc.AlwaysConfirm
	}

	docRepo := documentrepo.New(apiClient)
	authRepo := authrepo.New(apiClient)

	statsSvc := statsuc.New(docRepo, cfg.logger)
	collSvc := collectionuc.New(docRepo, confirmer, notifier, cfg.logger).
		WithPageSize(cfg.pageSize).
		WithSearchDebounce(cfg.searchDebounce)
	uploadSvc := uploaduc.New(docRepo, notifier, cfg.logger)

	// Successful uploads refresh every view that depends on the document set.
	uploadSvc.OnComplete(func(ctx context.Context) {
		if _, err := statsSvc.Refresh(ctx); err != nil {
			cfg.logger.Debug("stats refresh after upload failed", zap.Error(err))
		}
		if err := collSvc.Refresh(ctx); err != nil {
			cfg.logger.Debug("listing refresh after upload failed", zap.Error(err))
		}
	})
	if cfg.onProgress != nil {
		uploadSvc.OnProgress(func(index int, p uploaduc.Progress) {
			cfg.onProgress(index, UploadProgress{Name: p.Name, Percent: p.Percent})
		})
	}
	if cfg.onUnauthorized != nil {
		sess.OnExpire(cfg.onUnauthorized)
	}

	return &Client{
		session:   sess,
		closer:    func() {},
		authSvc:   authuc.New(authRepo, sess, cfg.logger),
		uploadSvc: uploadSvc,
		collSvc:   collSvc,
		statsSvc:  statsSvc,
		detailSvc: detailuc.New(docRepo, notifier, cfg.logger),
		searcher:  docRepo,
		obs:       obs,
	}, nil
}

// Close releases the session store connection, if any.
func (c *Client) Close() error {
	if c.closer != nil {
		c.closer()
	}
	return nil
}

// Authenticated reports whether a credential is held.
func (c *Client) Authenticated() bool { return c.session.Authenticated() }

// DefaultRoute is the screen to show on start: the dashboard when
// authenticated, login otherwise.
func (c *Client) DefaultRoute() Route {
	if c.Authenticated() {
		return RouteDashboard
	}
	return RouteLogin
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (_ User, err error) {
	defer func(start time.Time) { c.obs.observe("login", start, err) }(time.Now())
	u, err := c.authSvc.Login(ctx, email, password)
	if err != nil {
		return User{}, err
	}
	return userFromDomain(u), nil
}

// Register creates an account and starts a session.
func (c *Client) Register(ctx context.Context, r Registration) (_ User, err error) {
	defer func(start time.Time) { c.obs.observe("register", start, err) }(time.Now())
	u, err := c.authSvc.Register(ctx, authuc.Registration{
		Username:        r.Username,
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	})
	if err != nil {
		return User{}, err
	}
	return userFromDomain(u), nil
}

// Logout discards the session credential.
func (c *Client) Logout(ctx context.Context) (err error) {
	defer func(start time.Time) { c.obs.observe("logout", start, err) }(time.Now())
	return c.authSvc.Logout(ctx)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (_ User, err error) {
	defer func(start time.Time) { c.obs.observe("me", start, err) }(time.Now())
	u, err := c.authSvc.Me(ctx)
	if err != nil {
		return User{}, err
	}
	return userFromDomain(u), nil
}

// FailureMessage returns the text to show for a failed login or
// registration: the validation message, the server message, or fallback.
func FailureMessage(err error, fallback string) string {
	return authuc.FailureMessage(err, fallback)
}

// Uploads returns the upload queue.
func (c *Client) Uploads() *Uploads { return &Uploads{svc: c.uploadSvc, obs: c.obs} }

// Documents returns the document listing and detail views.
func (c *Client) Documents() *Documents {
	return &Documents{coll: c.collSvc, detail: c.detailSvc, searcher: c.searcher, obs: c.obs}
}

// Stats returns the status aggregator.
func (c *Client) Stats() *Stats { return &Stats{svc: c.statsSvc, obs: c.obs} }
