// Package spending holds the data model for a single fiscal year of U.S.
// federal spending and the loaders that populate it from the USAspending
// API.
//
// The model is deliberately flat: three ordered category lists (one per
// classification axis) and one list of four-field amount records. All
// downstream aggregation re-derives sums from the record list, so order
// matters only for presentation, never for correctness.
package spending

// Kind is one of the three fixed classification axes for spending.
type Kind string

const (
	KindObjectClass    Kind = "object_class"
	KindBudgetFunction Kind = "budget_function"
	KindAgency         Kind = "agency"
)

// Kinds lists the classification axes in hierarchy order: the flow diagram
// routes object class → budget function → agency.
var Kinds = []Kind{KindObjectClass, KindBudgetFunction, KindAgency}

// OtherAgency is the synthetic bucket low-rank agencies are consolidated
// into.
const OtherAgency = "Other"

// Category is a named grouping within one axis. The ID is an opaque API
// key used only to filter follow-up queries; it is stripped before the
// data reaches the graph builder.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Table maps each axis to its categories in API response order. That
// order is load-bearing: it determines node order in the final diagram.
// Every category in a loaded table has non-zero aggregate spending.
type Table map[Kind][]Category

// Record is a single amount observation: how much one agency spent within
// one (object class, budget function) pair. Names are display names; no
// identifiers survive into records.
type Record struct {
	ObjectClass    string  `json:"object_class"`
	BudgetFunction string  `json:"budget_function"`
	Agency         string  `json:"agency"`
	Amount         float64 `json:"amount"`
}

// Dataset is the cleaned output of the fetch phase: identifier-free
// category name lists plus the flat record list, for one fiscal year.
type Dataset struct {
	FiscalYear string            `json:"fiscal_year"`
	Categories map[Kind][]string `json:"categories"`
	Records    []Record          `json:"records"`
}
