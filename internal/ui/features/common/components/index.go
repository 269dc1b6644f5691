package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// HomePage is the dataset index.
func HomePage(p IndexPage) templ.Component {
	return Layout(p.Page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &writer{w: w}
		b.raw("<h1>Datasets</h1>\n<div data-init=\"@get('/updates')\"></div>\n")
		b.render(ctx, DatasetList(p.Datasets))
		return b.err
	}))
}

// DatasetList is the #dg-datasets fragment of the index page.
func DatasetList(cards []DatasetCard) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &writer{w: w}
		b.raw("<section id=\"dg-datasets\" class=\"dg-cards\">\n")
		if len(cards) == 0 {
			b.raw("<p class=\"dg-muted\">No datasets configured. Add them to dashgrid.yaml.</p>\n")
		}
		for _, c := range cards {
			datasetCard(b, c)
		}
		b.raw("</section>")
		return b.err
	})
}

func datasetCard(b *writer, c DatasetCard) {
	if c.Error != "" {
		b.raw("<article class=\"dg-card dg-card-error\">\n")
	} else {
		b.raw("<article class=\"dg-card\">\n")
	}
	b.raw("<h2><a")
	b.attr("href", c.Path)
	b.raw(">")
	b.text(c.Title)
	b.raw("</a></h2>\n<p class=\"dg-muted\">")
	b.text(c.Name + " · " + c.Source)
	b.raw("</p>\n")
	if c.Loaded {
		b.raw("<p>")
		b.text(itoa(c.Rows) + " rows · " + itoa(c.Columns) + " columns · loaded " + c.LoadedAt)
		b.raw("</p>\n")
	} else {
		b.raw("<p class=\"dg-muted\">Not loaded</p>\n")
	}
	if c.Error != "" {
		b.raw("<p class=\"dg-error\">")
		b.text(c.Error)
		b.raw("</p>\n")
	}
	b.raw("</article>\n")
}
