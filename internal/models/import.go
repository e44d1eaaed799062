package models

// JobState is the server-authoritative state of an import job. The server
// may report any state at any time; clients must not assume monotonicity.
type JobState string

const (
	JobStateWaiting   JobState = "waiting"
	JobStateActive    JobState = "active"
	JobStateCompleted JobState = "completed"
	JobStateFailed    JobState = "failed"
	JobStateDelayed   JobState = "delayed"
)

// Terminal reports whether no further state change is expected.
func (s JobState) Terminal() bool {
	return s == JobStateCompleted || s == JobStateFailed
}

// Import stages reported inside a progress snapshot.
const (
	StageParsing    = "parsing"
	StagePreparing  = "preparing"
	StageProcessing = "processing"
	StageImporting  = "importing"
	StageCompleted  = "completed"
	StageFailed     = "failed"
)

// JobProgress is a best-effort snapshot of how far the server has gotten.
// Fields are not guaranteed to be monotonic between fetches.
type JobProgress struct {
	Current    int      `json:"current"`
	Total      int      `json:"total"`
	Percentage int      `json:"percentage"`
	Stage      string   `json:"stage,omitempty"`
	Imported   int      `json:"imported,omitempty"`
	Skipped    int      `json:"skipped,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// ImportResult is the final outcome delivered to the caller. Per-row
// failures live in Errors; they do not fail the import as a whole.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ImportJob is one snapshot of a server-side import job.
type ImportJob struct {
	ID           string        `json:"id"`
	State        JobState      `json:"state"`
	Progress     JobProgress   `json:"progress"`
	FailedReason string        `json:"failed_reason,omitempty"`
	ReturnValue  *ImportResult `json:"return_value,omitempty"`
}

// Result builds the final ImportResult for a completed job. The server's
// return value wins when present; otherwise the last progress snapshot is
// used, defaulting absent counts to zero and absent errors to an empty list.
func (j *ImportJob) Result() ImportResult {
	if j.ReturnValue != nil {
		res := *j.ReturnValue
		if res.Errors == nil {
			res.Errors = []string{}
		}
		return res
	}
	res := ImportResult{
		Imported: j.Progress.Imported,
		Skipped:  j.Progress.Skipped,
		Errors:   j.Progress.Errors,
	}
	if res.Errors == nil {
		res.Errors = []string{}
	}
	return res
}

// ValidationOutcome is the result of local CSV header validation. It is
// computed once per file and never persisted.
type ValidationOutcome struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
