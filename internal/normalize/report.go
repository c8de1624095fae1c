// Package normalize cleans the free-text fields of workshop service orders.
package normalize

// Report counts the normalization warnings absorbed while cleaning a table
type Report struct {
	UnparseableHours int `json:"unparseable_hours"`
	InvalidSerials   int `json:"invalid_serials"`
}

// Total returns the number of warnings of every kind
func (r Report) Total() int {
	return r.UnparseableHours + r.InvalidSerials
}

// Merge adds the counts of other to r
func (r *Report) Merge(other Report) {
	r.UnparseableHours += other.UnparseableHours
	r.InvalidSerials += other.InvalidSerials
}
