package spending

// Names strips identifiers from the table, returning just the display
// names per axis in their original order. Must run after Amounts has
// consumed the object-class and budget-function identifiers; agency
// identifiers are never retained in the first place.
func (t Table) Names() map[Kind][]string {
	names := make(map[Kind][]string, len(t))
	for kind, categories := range t {
		list := make([]string, len(categories))
		for i, c := range categories {
			list[i] = c.Name
		}
		names[kind] = list
	}
	return names
}

// Consolidate collapses the long tail of agencies into the OtherAgency
// bucket. Every record whose agency is not among the first cutoff names
// (original insertion order) has its agency rewritten in place. The
// returned list is the first cutoff agencies followed by OtherAgency.
//
// If fewer than cutoff agencies exist, no record is rewritten but
// OtherAgency is still appended, producing a bucket with no records that
// layout and rendering treat as a zero-height node.
func Consolidate(records []Record, agencies []string, cutoff int) []string {
	top := agencies
	if len(top) > cutoff {
		top = top[:cutoff]
	}

	keep := make(map[string]bool, len(top))
	for _, name := range top {
		keep[name] = true
	}

	for i := range records {
		if !keep[records[i].Agency] {
			records[i].Agency = OtherAgency
		}
	}

	out := make([]string, 0, len(top)+1)
	out = append(out, top...)
	return append(out, OtherAgency)
}
