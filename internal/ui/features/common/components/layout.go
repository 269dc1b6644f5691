package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/nodeset-analytics/dashgrid/internal/ui/resources"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// devReload keeps an SSE connection to /reload open so the page reloads
// when the dev server restarts.
const devReload = `@get('/reload', {retryMaxCount: 1000, retryInterval: 20, retryMaxWaitMs: 200})`

// Layout wraps content in the document shell with the navigation bar.
func Layout(p Page, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &writer{w: w}
		b.raw("<!doctype html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
		b.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<title>")
		b.text(p.Title + " - dashgrid")
		b.raw("</title>\n<link rel=\"stylesheet\"")
		b.attr("href", resources.StaticPath("dashgrid.css"))
		b.raw(">\n<script type=\"module\"")
		b.attr("src", datastarScript)
		b.raw("></script>\n</head>\n<body>\n")
		if p.IsDev {
			b.raw("<div")
			b.attr("data-init", devReload)
			b.raw("></div>\n")
		}
		b.raw("<nav class=\"dg-nav\">\n<a class=\"dg-brand\" href=\"/\">dashgrid</a>\n")
		for _, item := range p.Nav {
			b.raw("<a")
			b.attr("href", item.Path)
			if item.Active {
				b.raw(` class="active"`)
			}
			b.raw(">")
			b.text(item.Title)
			b.raw("</a>\n")
		}
		b.raw("</nav>\n<main id=\"ui-content\">\n")
		b.render(ctx, content)
		b.raw("\n</main>\n</body>\n</html>\n")
		return b.err
	})
}
