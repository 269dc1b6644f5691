package grid

import "errors"

var (
	// ErrSearchDisabled is returned when searching a table that is not searchable.
	ErrSearchDisabled = errors.New("grid: search is disabled for this table")
	// ErrSelectionDisabled is returned when selecting on a table that is not selectable.
	ErrSelectionDisabled = errors.New("grid: selection is disabled for this table")
	// ErrExportDisabled is returned when exporting a table that is not exportable.
	ErrExportDisabled = errors.New("grid: export is disabled for this table")
	// ErrUnknownColumn is returned for column keys missing from the descriptors.
	ErrUnknownColumn = errors.New("grid: unknown column")
	// ErrColumnNotFilterable is returned when filtering a column without the filterable flag.
	ErrColumnNotFilterable = errors.New("grid: column is not filterable")
	// ErrColumnNotSortable is returned when sorting by a column without the sortable flag.
	ErrColumnNotSortable = errors.New("grid: column is not sortable")
	// ErrRowOutOfRange is returned for row indices outside the derived view.
	ErrRowOutOfRange = errors.New("grid: row index out of range")
)
