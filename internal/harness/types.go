package harness

import "github.com/roach88/plotstore/internal/scene"

// PageSummary describes one page after a scenario has been played.
type PageSummary struct {
	Index     int          `json:"index"`
	ID        scene.PageID `json:"id"`
	DrawCalls int          `json:"draw_calls"`
	Clips     int          `json:"clips"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Pages summarizes the pages in store order.
	Pages []PageSummary `json:"pages"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Pages:  []PageSummary{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
