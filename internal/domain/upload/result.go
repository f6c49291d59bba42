package upload

// DefaultFailureReason is reported when the server gave no message.
const DefaultFailureReason = "Upload failed"

// Outcome is the settlement of one file upload.
type Outcome string

// Outcome values.
const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Result is the outcome of uploading one candidate.
type Result struct {
	name       string
	outcome    Outcome
	documentID string
	reason     string
	err        error
}

// NewOK creates a successful result.
func NewOK(name, documentID string) Result {
	return Result{name: name, outcome: OutcomeOK, documentID: documentID}
}

// NewError creates a failed result. An empty reason falls back to DefaultFailureReason.
func NewError(name, reason string, err error) Result {
	if reason == "" {
		reason = DefaultFailureReason
	}
	return Result{name: name, outcome: OutcomeError, reason: reason, err: err}
}

// Name returns the original filename.
func (r Result) Name() string { return r.name }

// Outcome returns the settlement kind.
func (r Result) Outcome() Outcome { return r.outcome }

// OK reports success.
func (r Result) OK() bool { return r.outcome == OutcomeOK }

// DocumentID returns the created document ID on success.
func (r Result) DocumentID() string { return r.documentID }

// Reason returns the user-facing failure reason.
func (r Result) Reason() string { return r.reason }

// Err returns the underlying error, if any.
func (r Result) Err() error { return r.err }

// Report aggregates a settled batch. It is a set reduction: the order in
// which results arrive does not change it.
type Report struct {
	Succeeded int
	Failed    []Result
}

// Summarize reduces results into a Report.
func Summarize(results []Result) Report {
	var rep Report
	for _, r := range results {
		if r.OK() {
			rep.Succeeded++
			continue
		}
		rep.Failed = append(rep.Failed, r)
	}
	return rep
}
