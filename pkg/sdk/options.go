package ocrdesk

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type sessionKind int

const (
	sessionMemory sessionKind = iota
	sessionFile
	sessionValkey
	sessionCustom
)

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string

	sessionKind sessionKind
	sessionPath string
	tokenStore  TokenStore
	valkeyAddrs []string
	valkeyUser  string
	valkeyPass  string
	valkeyDB    int
	sessionKey  string
	sessionTTL  time.Duration

	notifier       Notifier
	confirmer      Confirmer
	onUnauthorized func()
	onProgress     func(index int, p UploadProgress)

	pageSize       int
	searchDebounce time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL sets the OCR service API root, e.g. "http://localhost:5000/api". Required.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout sets the per-request timeout of the default HTTP client.
// Ignored when WithHTTPClient is used. Default: none.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return optionFunc(func(c *clientConfig) {
		c.userAgent = ua
	})
}

// WithTokenStore persists the session credential in a custom store.
func WithTokenStore(s TokenStore) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionKind = sessionCustom
		c.tokenStore = s
	})
}

// WithFileSession persists the credential in a YAML file at path.
// An empty path uses the user config directory.
func WithFileSession(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionKind = sessionFile
		c.sessionPath = path
	})
}

// WithValkeySession persists the credential in Valkey/Redis.
func WithValkeySession(addrs []string, username, password string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionKind = sessionValkey
		c.valkeyAddrs = addrs
		c.valkeyUser = username
		c.valkeyPass = password
		c.valkeyDB = db
	})
}

// WithSessionKey sets the Valkey key and expiry of the stored credential.
// A zero ttl keeps the key until logout.
func WithSessionKey(key string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sessionKey = key
		c.sessionTTL = ttl
	})
}

// WithNotifier receives transient user notifications
// ("Successfully uploaded 2 file(s)", "Error fetching documents", ...).
func WithNotifier(n Notifier) Option {
	return optionFunc(func(c *clientConfig) {
		c.notifier = n
	})
}

// WithConfirmer gates destructive actions. Default: every prompt is approved.
func WithConfirmer(cf Confirmer) Option {
	return optionFunc(func(c *clientConfig) {
		c.confirmer = cf
	})
}

// WithUnauthorizedHandler is called when a 401 discards the session.
func WithUnauthorizedHandler(fn func()) Option {
	return optionFunc(func(c *clientConfig) {
		c.onUnauthorized = fn
	})
}

// WithUploadProgress receives per-file transfer progress during Launch.
// fn is called from upload goroutines.
func WithUploadProgress(fn func(index int, p UploadProgress)) Option {
	return optionFunc(func(c *clientConfig) {
		c.onProgress = fn
	})
}

// WithPageSize sets the initial listing page size (5, 10 or 25). Default: 10.
func WithPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithSearchDebounce delays search-triggered listing fetches. Default: none.
func WithSearchDebounce(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchDebounce = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
