package domain

// Dataset is an immutable view over joined records. Every operation that
// changes the records returns a new Dataset; the receiver is never modified.
type Dataset struct {
	records []Record
	derived bool
}

// NewDataset creates a dataset holding a copy of records
func NewDataset(records []Record) Dataset {
	return Dataset{records: cloneRecords(records)}
}

// WithDerived returns a new dataset holding records whose derived fields
// have been populated.
func (d Dataset) WithDerived(records []Record) Dataset {
	return Dataset{records: cloneRecords(records), derived: true}
}

// Len returns the number of records
func (d Dataset) Len() int {
	return len(d.records)
}

// Derived reports whether the derived columns are populated
func (d Dataset) Derived() bool {
	return d.derived
}

// At returns the record at index i
func (d Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of all records
func (d Dataset) Records() []Record {
	return cloneRecords(d.records)
}

// Filter returns a new dataset with the records for which keep returns true
func (d Dataset) Filter(keep func(Record) bool) Dataset {
	out := make([]Record, 0, len(d.records))
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return Dataset{records: out, derived: d.derived}
}

// Each calls fn for every record in order
func (d Dataset) Each(fn func(Record)) {
	for _, r := range d.records {
		fn(r)
	}
}

// LatestYear returns the maximum order year, or false for an empty dataset
func (d Dataset) LatestYear() (int, bool) {
	if len(d.records) == 0 {
		return 0, false
	}
	latest := d.records[0].OrderDate.Year()
	for _, r := range d.records[1:] {
		if y := r.OrderDate.Year(); y > latest {
			latest = y
		}
	}
	return latest, true
}

func cloneRecords(records []Record) []Record {
	if records == nil {
		return []Record{}
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
