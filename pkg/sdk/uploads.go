package ocrdesk

import (
	"context"
	"time"
)

// Uploads is the upload queue. It is shared by every Uploads value of one Client.
type Uploads struct {
	svc uploadUseCase
	obs *observer
}

// Select replaces the queue with the acceptable files. Files with an
// unsupported type or above MaxFileSize are dropped silently.
func (u *Uploads) Select(files []File) ([]Candidate, error) {
	cs, err := u.svc.Select(files)
	if err != nil {
		return nil, err
	}
	return candidatesFromDomain(cs), nil
}

// Remove drops the queued file at index.
func (u *Uploads) Remove(index int) error { return u.svc.Remove(index) }

// Candidates returns the queued files.
func (u *Uploads) Candidates() []Candidate { return candidatesFromDomain(u.svc.Candidates()) }

// Progress returns the per-file transfer progress of the running batch.
func (u *Uploads) Progress() []UploadProgress {
	ps := u.svc.Progress()
	out := make([]UploadProgress, len(ps))
	for i, p := range ps {
		out[i] = UploadProgress{Name: p.Name, Percent: p.Percent}
	}
	return out
}

// Launch uploads every queued file concurrently and waits for all of them.
// The queue is cleared afterwards even when some files failed.
func (u *Uploads) Launch(ctx context.Context) (_ UploadReport, err error) {
	defer func(start time.Time) { u.obs.observe("uploads.launch", start, err) }(time.Now())
	rep, err := u.svc.Launch(ctx)
	if err != nil {
		return UploadReport{}, err
	}
	return reportFromDomain(rep), nil
}
