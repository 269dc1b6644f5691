// Package grid implements the data table engine behind every dashgrid surface.
//
// A Table takes opaque rows and static column descriptors and derives a
// user-controlled view from them:
//
//	rows -> Filter (global search AND per-column filters) -> Sort -> Paginate
//
// The view is recomputed from scratch whenever it is requested; the input
// rows are never mutated. Selection, row clicks and CSV export operate on the
// filtered and sorted view.
//
// The pipeline stages are also exported as plain functions (Filter, Sort,
// Paginate, WriteCSV) so hosts that keep their own state, such as stateless
// HTTP handlers, can apply them directly.
package grid
