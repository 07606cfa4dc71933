package httpx

import (
	"context"
	"net/http"
)

// Farmer renders a farmer's own supply and payment summary.
// GET /farmer.
func (h *UIHandlers) Farmer(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "My Dashboard - AquaFlow", PageTitle: "My Dashboard", CurrentPage: PageFarmer},
		Fetch: func(ctx context.Context, data map[string]any) error {
			stats, err := h.API.Farmers.MyStats(ctx)
			if err != nil {
				return err
			}
			data["Stats"] = stats
			data["Payments"] = stats.Payments
			return nil
		},
	})
}
