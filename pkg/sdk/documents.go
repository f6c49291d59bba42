package ocrdesk

import (
	"context"
	"time"

	"github.com/kailas-cloud/ocrdesk/internal/domain/detail"
)

// Documents is the paginated, searchable document listing plus the
// single-document view. Listing state is shared by every Documents value
// of one Client.
type Documents struct {
	coll     collectionUseCase
	detail   detailUseCase
	searcher documentSearcher
	obs      *observer
}

// Snapshot returns the current listing state.
func (d *Documents) Snapshot() Snapshot {
	return snapshotFromDomain(d.coll.Snapshot())
}

// Fetch loads the current page.
func (d *Documents) Fetch(ctx context.Context) (err error) {
	defer func(start time.Time) { d.obs.observe("documents.fetch", start, err) }(time.Now())
	return d.coll.Fetch(ctx)
}

// Refresh reloads the current page.
func (d *Documents) Refresh(ctx context.Context) (err error) {
	defer func(start time.Time) { d.obs.observe("documents.refresh", start, err) }(time.Now())
	return d.coll.Refresh(ctx)
}

// SetPage moves to a zero-based page.
func (d *Documents) SetPage(ctx context.Context, page int) (err error) {
	defer func(start time.Time) { d.obs.observe("documents.set_page", start, err) }(time.Now())
	return d.coll.SetPage(ctx, page)
}

// SetPageSize changes the page size (5, 10 or 25) and returns to the first page.
func (d *Documents) SetPageSize(ctx context.Context, size int) (err error) {
	defer func(start time.Time) { d.obs.observe("documents.set_page_size", start, err) }(time.Now())
	return d.coll.SetPageSize(ctx, size)
}

// SetSearch filters by title or text and returns to the first page.
// A superseded search returns nil without updating the listing.
func (d *Documents) SetSearch(ctx context.Context, search string) (err error) {
	defer func(start time.Time) { d.obs.observe("documents.search", start, err) }(time.Now())
	return d.coll.SetSearch(ctx, search)
}

// Delete removes a document after confirmation. Declining returns ErrDeclined.
func (d *Documents) Delete(ctx context.Context, id, title string) (err error) {
	defer func(start time.Time) { d.obs.observe("documents.delete", start, err) }(time.Now())
	return d.coll.Delete(ctx, id, title)
}

// Get loads one document. Failures are reported as DetailError, never as an error.
func (d *Documents) Get(ctx context.Context, id string) DetailView {
	start := time.Now()
	v := d.detail.Load(ctx, id)
	var err error
	if v.State() == detail.StateError {
		err = ErrNotFound
	}
	d.obs.observe("documents.get", start, err)
	return detailFromDomain(v)
}

// Find runs a one-shot search over all documents, outside the paginated
// listing. The listing state is left unchanged.
func (d *Documents) Find(ctx context.Context, text string) (_ []Document, err error) {
	defer func(start time.Time) { d.obs.observe("documents.find", start, err) }(time.Now())
	docs, err := d.searcher.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]Document, len(docs))
	for i, doc := range docs {
		out[i] = documentFromDomain(doc)
	}
	return out, nil
}
