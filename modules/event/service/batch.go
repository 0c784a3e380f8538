package service

import "fmt"

// BatchResult accumulates per-item outcomes of a partial-failure loop
// (child materialization, ICS import). Failed items never abort the batch;
// they are recorded and reported.
type BatchResult struct {
	Succeeded int
	Failed    int
	Failures  []string
}

func (b *BatchResult) success() {
	b.Succeeded++
}

func (b *BatchResult) failure(item string, err error) {
	b.Failed++
	b.Failures = append(b.Failures, fmt.Sprintf("%s: %v", item, err))
}

// Total is the number of items attempted.
func (b *BatchResult) Total() int {
	return b.Succeeded + b.Failed
}
