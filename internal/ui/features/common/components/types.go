package components

// NavItem is one link of the top navigation.
type NavItem struct {
	Title  string
	Path   string
	Active bool
}

// Page holds what every full page needs.
type Page struct {
	Title string
	IsDev bool
	Nav   []NavItem
}

// DatasetCard summarizes one dataset on the index page.
type DatasetCard struct {
	Name     string
	Title    string
	Path     string
	Source   string
	Rows     int
	Columns  int
	Loaded   bool
	LoadedAt string
	Error    string
}

// IndexPage is the dataset index.
type IndexPage struct {
	Page
	Datasets []DatasetCard
}

// DatasetPage is the shell of one dataset's table. Signals is the initial
// datastar signal object as JSON.
type DatasetPage struct {
	Page
	Name       string
	Signals    string
	UpdatesURL string
	Table      TableData
}

// HeaderCell is one column header.
type HeaderCell struct {
	Key        string
	Label      string
	Indicator  string
	AriaSort   string
	Sortable   bool
	Filterable bool
}

// RowData is one rendered row of the current page. Index is its position
// on the page.
type RowData struct {
	Index    int
	Cells    []string
	Selected bool
}

// DetailField is one label/value pair of the clicked row.
type DetailField struct {
	Label string
	Value string
}

// TableData is everything the table fragment renders.
type TableData struct {
	Dataset    string
	ViewURL    string
	Density    string
	Searchable bool
	Selectable bool
	Exportable bool

	Headers     []HeaderCell
	Rows        []RowData
	Colspan     int
	Placeholder string

	Footer        string
	HasPrev       bool
	HasNext       bool
	AllSelected   bool
	SelectedCount int

	ExportURL         string
	ExportSelectedURL string

	Detail   []DetailField
	Error    string
	LoadedAt string
}
