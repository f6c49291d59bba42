package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ocrdesk/internal/config"
	"github.com/kailas-cloud/ocrdesk/internal/version"
	ocrdesk "github.com/kailas-cloud/ocrdesk/pkg/sdk"
)

var errUsage = errors.New("usage: ocrdesk [login|register|logout|me|upload|list|search|show|delete|stats|version] [flags]")

// app runs one CLI invocation.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// extra options, used by tests to inject an HTTP client
	opts []ocrdesk.Option

	mu        sync.Mutex
	assumeYes bool
	expired   bool
}

func (a *app) run(ctx context.Context, args []string) error {
	cmd := ""
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	handlers := map[string]func(context.Context, *ocrdesk.Client, []string) error{
		"":         a.home,
		"login":    a.login,
		"register": a.register,
		"logout":   a.logout,
		"me":       a.me,
		"upload":   a.upload,
		"list":     a.list,
		"search":   a.search,
		"show":     a.show,
		"delete":   a.remove,
		"stats":    a.stats,
	}
	if cmd == "version" {
		fmt.Fprintln(a.stdout, "ocrdesk", version.String())
		return nil
	}
	h, ok := handlers[cmd]
	if !ok {
		return errUsage
	}

	client, err := ocrdesk.New(ctx, a.clientOptions()...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	err = h(ctx, client, args)
	if a.sessionExpired() {
		fmt.Fprintln(a.stderr, "Session expired. Run: ocrdesk login")
	}
	return err
}

// clientOptions maps configuration onto SDK options.
func (a *app) clientOptions() []ocrdesk.Option {
	opts := []ocrdesk.Option{
		ocrdesk.WithBaseURL(a.cfg.API.BaseURL),
		ocrdesk.WithLogger(a.logger),
		ocrdesk.WithNotifier(ocrdesk.NotifyFunc(a.notify)),
		ocrdesk.WithConfirmer(ocrdesk.ConfirmFunc(a.confirm)),
		ocrdesk.WithUnauthorizedHandler(a.markExpired),
		ocrdesk.WithPageSize(a.cfg.Collection.DefaultPageSize),
		ocrdesk.WithSearchDebounce(time.Duration(a.cfg.Collection.SearchDebounceMs) * time.Millisecond),
	}
	if a.cfg.API.TimeoutSec > 0 {
		opts = append(opts, ocrdesk.WithTimeout(time.Duration(a.cfg.API.TimeoutSec)*time.Second))
	}
	if a.cfg.API.UserAgent != "" {
		opts = append(opts, ocrdesk.WithUserAgent(a.cfg.API.UserAgent))
	}

	switch a.cfg.Session.Store {
	case config.SessionStoreValkey:
		v := a.cfg.Valkey
		opts = append(opts,
			ocrdesk.WithValkeySession(v.Addrs, v.Username, v.Password, v.DB),
			ocrdesk.WithSessionKey(a.cfg.Session.Key, time.Duration(a.cfg.Session.TTLHours)*time.Hour),
		)
	case config.SessionStoreFile:
		opts = append(opts, ocrdesk.WithFileSession(a.cfg.Session.FilePath))
	}
	return append(opts, a.opts...)
}

func (a *app) notify(n ocrdesk.Notification) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.stderr, "[%s] %s\n", n.Level, n.Message)
}

func (a *app) confirm(_ context.Context, prompt string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.assumeYes {
		return true
	}
	fmt.Fprintf(a.stdout, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (a *app) markExpired() {
	a.mu.Lock()
	a.expired = true
	a.mu.Unlock()
}

func (a *app) sessionExpired() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.expired
}
