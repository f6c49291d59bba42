// Command ocrdesk is a terminal front end for the document-OCR service.
//
// Usage:
//
//	ocrdesk                                  # dashboard when logged in, login hint otherwise
//	ocrdesk login -email ann@example.com -password secret
//	ocrdesk register -username ann -email ann@example.com -password secret -confirm secret
//	ocrdesk upload scan.png invoice.pdf      # concurrent upload
//	ocrdesk list -page 2 -limit 25 -search invoice
//	ocrdesk show <id>
//	ocrdesk delete <id>
//	ocrdesk stats
//	ocrdesk logout
//	ocrdesk version
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kailas-cloud/ocrdesk/internal/config"
	logpkg "github.com/kailas-cloud/ocrdesk/internal/logger"
)

func main() {
	os.Exit(realMain())
}

// realMain owns every deferred cleanup so the logger is synced before the
// process exits.
func realMain() int {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return exitCode(fmt.Errorf("load config: %w", err), os.Stderr)
	}

	level := cfg.Logging.Level
	if os.Getenv("OCRDESK_VERBOSE") == "" {
		level = "warn"
	}
	logger, err := logpkg.NewLogger(env, level, logpkg.WithName("ocrdesk"), logpkg.WithOutput("stderr"))
	if err != nil {
		return exitCode(fmt.Errorf("create logger: %w", err), os.Stderr)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		cfg:    cfg,
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	return exitCode(a.run(ctx, os.Args[1:]), os.Stderr)
}

// exitCode reports err on w and maps it to a process status:
// 0 on success or -h, 2 on usage errors, 1 otherwise.
func exitCode(err error, w io.Writer) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(w, err)
		return 2
	default:
		fmt.Fprintln(w, "ocrdesk:", err)
		return 1
	}
}
