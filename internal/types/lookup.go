package types

// LookupTable describes an external reference table. Column 0 is the key
// column the source value is matched against; destination fields are
// populated positionally from the remaining columns.
type LookupTable struct {
	Name    string
	Columns []string
}
