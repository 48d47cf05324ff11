package generation

import "github.com/persona-lab/persona-backend/internal/personas/domain"

// BatchResult is the outcome of one request to the AI service. Exactly one
// of Personas (possibly empty) or Err is meaningful.
type BatchResult struct {
	Index     int
	Requested int
	Personas  []domain.Persona
	Err       error
}

func (b BatchResult) OK() bool {
	return b.Err == nil
}

// Result aggregates every batch of a generation run.
type Result struct {
	// Personas holds every persona produced, in batch order.
	Personas []domain.Persona
	Batches  []BatchResult
}

// Failed returns the batches that did not contribute personas because of an
// error.
func (r *Result) Failed() []BatchResult {
	var out []BatchResult
	for _, b := range r.Batches {
		if !b.OK() {
			out = append(out, b)
		}
	}
	return out
}

// Complete reports whether every batch succeeded.
func (r *Result) Complete() bool {
	return len(r.Failed()) == 0
}
