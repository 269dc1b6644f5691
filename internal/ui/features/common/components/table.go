package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// DatasetView is the page of one dataset. The signals div carries the
// initial datastar state.
func DatasetView(p DatasetPage) templ.Component {
	return Layout(p.Page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &writer{w: w}
		b.raw("<div")
		b.attr("data-signals", p.Signals)
		b.raw(">\n<h1>")
		b.text(p.Title)
		b.raw("</h1>\n<div")
		b.attr("data-init", "@get("+jsString(p.UpdatesURL)+")")
		b.raw("></div>\n")
		b.render(ctx, Table(p.Table))
		b.raw("\n</div>")
		return b.err
	}))
}

// Table is the #dg-table fragment.
func Table(t TableData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &writer{w: w}
		b.raw("<section id=\"dg-table\"")
		b.attr("class", "dg-table dg-"+t.Density)
		b.raw(">\n")
		if t.Error != "" {
			b.raw("<p class=\"dg-error\">Last load failed: ")
			b.text(t.Error)
			b.raw("</p>\n")
		}
		toolbar(b, t)
		b.raw("<table>\n<thead>\n<tr>\n")
		tableHeaders(b, t)
		b.raw("</tr>\n</thead>\n<tbody>\n")
		if t.Placeholder != "" {
			b.raw("<tr class=\"dg-placeholder\"><td")
			b.attr("colspan", itoa(t.Colspan))
			b.raw(">")
			b.text(t.Placeholder)
			b.raw("</td></tr>\n")
		}
		for _, row := range t.Rows {
			tableRow(b, t, row)
		}
		b.raw("</tbody>\n</table>\n")
		pager(b, t)
		if len(t.Detail) > 0 {
			b.raw("<aside class=\"dg-detail\">\n<dl>\n")
			for _, f := range t.Detail {
				b.raw("<dt>")
				b.text(f.Label)
				b.raw("</dt><dd>")
				b.text(f.Value)
				b.raw("</dd>\n")
			}
			b.raw("</dl>\n</aside>\n")
		}
		b.raw("</section>")
		return b.err
	})
}

func toolbar(b *writer, t TableData) {
	b.raw("<div class=\"dg-toolbar\">\n")
	if t.Searchable {
		b.raw(`<input type="search" placeholder="Search…" aria-label="Search" data-bind="search"`)
		b.attr("data-on:input__debounce.300ms", post(t.ViewURL, "search", ""))
		b.raw(">\n")
	}
	if t.Exportable {
		b.raw("<a class=\"dg-button\"")
		b.attr("href", t.ExportURL)
		b.raw(" download>Export CSV</a>\n")
		if t.SelectedCount > 0 {
			b.raw("<a class=\"dg-button\"")
			b.attr("href", t.ExportSelectedURL)
			b.raw(" download>")
			b.text("Export selected (" + itoa(t.SelectedCount) + ")")
			b.raw("</a>\n")
		}
	}
	// The updates stream clicks this to re-post the current signals.
	b.raw("<button id=\"dg-refresh\" hidden")
	b.attr("data-on:click", post(t.ViewURL, "", ""))
	b.raw("></button>\n")
	if t.LoadedAt != "" {
		b.raw("<span class=\"dg-muted\">")
		b.text("Loaded " + t.LoadedAt)
		b.raw("</span>\n")
	}
	b.raw("</div>\n")
}

func tableHeaders(b *writer, t TableData) {
	if t.Selectable {
		b.raw("<th class=\"dg-check\"><input type=\"checkbox\" aria-label=\"Select all\"")
		b.flag("checked", t.AllSelected)
		b.attr("data-on:click", post(t.ViewURL, "toggle_all", ""))
		b.raw("></th>\n")
	}
	for _, h := range t.Headers {
		b.raw("<th")
		b.attr("aria-sort", h.AriaSort)
		b.raw(">")
		if h.Sortable {
			b.raw("<button class=\"dg-sort\"")
			b.attr("data-on:click", post(t.ViewURL, "sort", h.Key))
			b.raw(">")
			b.text(h.Label + h.Indicator)
			b.raw("</button>")
		} else {
			b.text(h.Label)
		}
		if h.Filterable {
			b.raw("\n<input class=\"dg-filter\" placeholder=\"Filter\"")
			b.attr("aria-label", "Filter "+h.Label)
			b.attr("data-bind", "filters."+h.Key)
			b.attr("data-on:input__debounce.300ms", post(t.ViewURL, "filter", h.Key))
			b.raw(">")
		}
		b.raw("</th>\n")
	}
}

func tableRow(b *writer, t TableData, row RowData) {
	index := itoa(row.Index)
	b.raw("<tr")
	if row.Selected {
		b.raw(` class="dg-selected"`)
	}
	b.attr("data-on:click", post(t.ViewURL, "click", index))
	b.raw(">\n")
	if t.Selectable {
		b.raw("<td class=\"dg-check\"><input type=\"checkbox\" aria-label=\"Select row\"")
		b.flag("checked", row.Selected)
		b.attr("data-on:click__stop", post(t.ViewURL, "toggle", index))
		b.raw("></td>\n")
	}
	for _, cell := range row.Cells {
		b.raw("<td>")
		b.text(cell)
		b.raw("</td>\n")
	}
	b.raw("</tr>\n")
}

func pager(b *writer, t TableData) {
	b.raw("<footer class=\"dg-footer\">\n<button")
	b.flag("disabled", !t.HasPrev)
	b.attr("data-on:click", post(t.ViewURL, "prev", ""))
	b.raw(">Previous</button>\n<span>")
	b.text(t.Footer)
	b.raw("</span>\n<button")
	b.flag("disabled", !t.HasNext)
	b.attr("data-on:click", post(t.ViewURL, "next", ""))
	b.raw(">Next</button>\n</footer>\n")
}
