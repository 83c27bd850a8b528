package source

// DiscoveredFile is a statement file found while expanding the input list.
type DiscoveredFile struct {
	Path string
}

// Columns maps the three required fields to headers of a particular file.
type Columns struct {
	Date        string
	Description string
	Amount      string
}

// Table is a statement file read into memory: a header row plus data records.
type Table struct {
	Path    string
	Headers []string
	Records [][]string
}

// RowError describes a data row that could not be turned into a transaction.
type RowError struct {
	Line   int
	Reason string
}
