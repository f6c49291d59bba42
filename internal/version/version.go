// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders "version (commit, date)" for startup logs and -version output.
func String() string {
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Date)
}

// UserAgent returns the HTTP User-Agent for product, e.g. "ocrdesk-sdk/1.2.0".
func UserAgent(product string) string {
	if Commit == "" || Commit == "unknown" {
		return product + "/" + Version
	}
	return fmt.Sprintf("%s/%s (+%s)", product, Version, shortCommit(Commit))
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
