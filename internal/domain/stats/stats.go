package stats

import "github.com/kailas-cloud/ocrdesk/internal/domain/document"

// Counts summarizes a document set by OCR status.
type Counts struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
}

// Reduce counts docs by exact status match.
func Reduce(docs []document.Document) Counts {
	c := Counts{Total: len(docs)}
	for _, d := range docs {
		switch d.Status() {
		case document.StatusPending:
			c.Pending++
		case document.StatusProcessing:
			c.Processing++
		case document.StatusCompleted:
			c.Completed++
		case document.StatusFailed:
			c.Failed++
		}
	}
	return c
}
