// Package report persists the results of batch MSSIM comparisons as JSON
// documents on disk.
package report

import (
	"time"
)

// Options records the comparison parameters a report was produced with,
// so a reader can reproduce the scores.
type Options struct {
	WindowSize int     `json:"windowSize"`
	K1         float64 `json:"k1"`
	K2         float64 `json:"k2"`
	BitDepth   int     `json:"bitDepth"`
}

// Entry is the outcome of comparing one candidate image against the
// reference. Either Score is meaningful or Err is non-empty, never both.
type Entry struct {
	// Path is the candidate image path as given to the batch run.
	Path string `json:"path"`

	// Score is the mean SSIM against the reference.
	Score float64 `json:"score"`

	// Width and Height are the candidate dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Err holds the failure message when this candidate could not be
	// compared (unreadable file, dimension mismatch). A failed entry
	// does not abort the batch.
	Err string `json:"error,omitempty"`
}

// Report is a complete batch comparison result.
type Report struct {
	// Reference is the path of the image every entry was compared to.
	Reference string `json:"reference"`

	// Options are the comparison parameters shared by all entries.
	Options Options `json:"options"`

	// CreatedAt records when the batch run finished.
	CreatedAt time.Time `json:"createdAt"`

	// Entries holds one result per candidate, in the order they were
	// compared.
	Entries []Entry `json:"entries"`
}

// New creates an empty report for the given reference and options,
// stamped with the current time.
func New(reference string, opts Options) *Report {
	return &Report{
		Reference: reference,
		Options:   opts,
		CreatedAt: time.Now(),
	}
}

// Add appends one comparison outcome.
func (r *Report) Add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// Failed reports how many entries carry an error.
func (r *Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err != "" {
			n++
		}
	}
	return n
}

// ErrNotFound is returned when a requested report file does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing report file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path != "" {
		return "report not found: " + e.Path
	}
	return "report not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
