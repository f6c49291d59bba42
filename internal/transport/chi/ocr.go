package chi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// pdfInfo is what the stub learns from a PDF before OCR.
type pdfInfo struct {
	pages int
	text  string
}

// inspectPDF validates the PDF structure and pulls literal text out of the
// page content streams.
func inspectPDF(data []byte) (pdfInfo, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return pdfInfo{}, fmt.Errorf("pdfcpu read: %w", err)
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		text := pageText(ctx, pageNr)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
	}
	return pdfInfo{pages: ctx.PageCount, text: sb.String()}, nil
}

func pageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return textFromStream(data)
}

// showText matches literal strings drawn by the Tj operator.
var showText = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*Tj`)

func textFromStream(data []byte) string {
	var parts []string
	for _, m := range showText.FindAllSubmatch(data, -1) {
		s := strings.TrimSpace(unescapePDFString(string(m[1])))
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

var pdfEscapes = strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`, `\n`, "\n", `\r`, "\r", `\t`, "\t")

func unescapePDFString(s string) string { return pdfEscapes.Replace(s) }

// imageText is the simulated OCR output for raster uploads.
func imageText(name string) string {
	return "Sample text recognized in " + name
}

// Processor advances simulated OCR jobs on a fixed interval.
type Processor struct {
	store    *Store
	interval time.Duration
	logger   *zap.Logger
	lastTick atomic.Int64
}

// NewProcessor creates an OCR simulator. Each tick moves every job one step.
func NewProcessor(store *Store, interval time.Duration, logger *zap.Logger) *Processor {
	return &Processor{store: store, interval: interval, logger: logger}
}

// Run ticks until ctx is done.
func (p *Processor) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	p.lastTick.Store(time.Now().UnixNano())
	defer p.lastTick.Store(0)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.lastTick.Store(time.Now().UnixNano())
			if n := p.store.Advance(); n > 0 {
				p.logger.Debug("ocr jobs advanced", zap.Int("count", n))
			}
		}
	}
}

// HealthCheck fails when Run is not active or has missed several ticks.
func (p *Processor) HealthCheck(_ context.Context) error {
	last := p.lastTick.Load()
	if last == 0 {
		return errors.New("ocr processor not running")
	}
	if since := time.Since(time.Unix(0, last)); since > 3*p.interval {
		return fmt.Errorf("ocr processor stalled for %s", since.Truncate(time.Millisecond))
	}
	return nil
}
