package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domdoc "github.com/kailas-cloud/ocrdesk/internal/domain/document"
)

// documentDTO is the wire shape of a document. The service emits Mongo-style
// "_id"; "id" is accepted as a fallback.
type documentDTO struct {
	MongoID       string    `json:"_id"`
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	OriginalName  string    `json:"originalName"`
	FileType      string    `json:"fileType"`
	FileSize      int64     `json:"fileSize"`
	OCRStatus     string    `json:"ocrStatus"`
	ExtractedText string    `json:"extractedText"`
	FileURL       string    `json:"fileUrl"`
	CreatedAt     wireTime  `json:"createdAt"`
}

// wireTime decodes createdAt leniently. Empty, null or unparseable values
// become the zero time instead of failing the whole page.
type wireTime time.Time

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if ms, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		*t = wireTime(time.UnixMilli(ms).UTC())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*t = wireTime{}
		return nil
	}
	for _, layout := range wireTimeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			*t = wireTime(v)
			return nil
		}
	}
	*t = wireTime{}
	return nil
}

func (d documentDTO) id() string {
	if d.MongoID != "" {
		return d.MongoID
	}
	return d.ID
}

func (d documentDTO) toDomain() (domdoc.Document, error) {
	doc, err := domdoc.New(domdoc.Fields{
		ID:            d.id(),
		Title:         d.Title,
		OriginalName:  d.OriginalName,
		FileType:      d.FileType,
		FileSize:      d.FileSize,
		Status:        d.OCRStatus,
		ExtractedText: d.ExtractedText,
		FileURL:       d.FileURL,
		CreatedAt:     time.Time(d.CreatedAt),
	})
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("document %q: %w", d.id(), err)
	}
	return doc, nil
}

func toDomainList(in []documentDTO) ([]domdoc.Document, error) {
	out := make([]domdoc.Document, 0, len(in))
	for _, d := range in {
		doc, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

type paginationDTO struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type listResponse struct {
	Documents  []documentDTO  `json:"documents"`
	Pagination *paginationDTO `json:"pagination"`
}

type getResponse struct {
	Document *documentDTO `json:"document"`
}

type uploadResponse struct {
	Message  string       `json:"message"`
	Document *documentDTO `json:"document"`
}
