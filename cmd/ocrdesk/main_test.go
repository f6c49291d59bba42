package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"strings"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		wantOut string
	}{
		{"success", nil, 0, ""},
		{"help", fmt.Errorf("list: %w", flag.ErrHelp), 0, ""},
		{"usage", errUsage, 2, "usage: ocrdesk"},
		{"failure", errors.New("boom"), 1, "ocrdesk: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if got := exitCode(tt.err, &buf); got != tt.code {
				t.Errorf("code = %d, want %d", got, tt.code)
			}
			if tt.wantOut == "" && buf.Len() != 0 {
				t.Errorf("unexpected output %q", buf.String())
			}
			if !strings.Contains(buf.String(), tt.wantOut) {
				t.Errorf("output = %q, want %q", buf.String(), tt.wantOut)
			}
		})
	}
}

func TestCLI_Version(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.exec("", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "ocrdesk dev") {
		t.Errorf("out = %q", out)
	}
}
