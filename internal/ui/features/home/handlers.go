package home

import (
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/nodeset-analytics/dashgrid/internal/dataset"
	"github.com/nodeset-analytics/dashgrid/internal/ui/features/common"
	"github.com/nodeset-analytics/dashgrid/internal/ui/features/common/components"
	"github.com/nodeset-analytics/dashgrid/internal/ui/notifier"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	catalog  *dataset.Catalog
	notifier *notifier.Notifier
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(catalog *dataset.Catalog, notify *notifier.Notifier, isDev bool) *Handlers {
	return &Handlers{
		catalog:  catalog,
		notifier: notify,
		isDev:    isDev,
	}
}

// HomePage renders the dataset index.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	page := components.IndexPage{
		Page: components.Page{
			Title: "Datasets",
			IsDev: h.isDev,
			Nav:   common.BuildNav(h.catalog, "/"),
		},
		Datasets: h.buildCards(),
	}
	if err := components.HomePage(page).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HomePageUpdates is the long-lived SSE endpoint for the index page. It
// re-patches the dataset list whenever any dataset reloads. The initial
// list is rendered by HomePage.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe("")
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.PatchElementTempl(components.DatasetList(h.buildCards())); err != nil {
				_ = sse.ConsoleError(err)
				// Don't return - keep trying on next update
			}
		}
	}
}

// buildCards summarizes every dataset in declaration order.
func (h *Handlers) buildCards() []components.DatasetCard {
	snaps := h.catalog.List()
	cards := make([]components.DatasetCard, 0, len(snaps))
	for _, s := range snaps {
		card := components.DatasetCard{
			Name:    s.Config.Name,
			Title:   s.Config.DisplayTitle(),
			Path:    common.DatasetPath(s.Config.Name),
			Source:  s.Config.Source.Describe(),
			Rows:    len(s.Rows),
			Columns: len(s.Columns),
			Loaded:  s.Loaded,
		}
		if s.Loaded {
			card.LoadedAt = s.LoadedAt.Format(time.DateTime)
		}
		if s.Err != nil {
			card.Error = s.Err.Error()
		}
		cards = append(cards, card)
	}
	return cards
}
