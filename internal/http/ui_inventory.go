package httpx

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
	"github.com/aquaflow/aquaflow-ui/internal/http/validation"
)

// Inventory renders cold-storage stock.
// GET /inventory.
func (h *UIHandlers) Inventory(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Inventory - AquaFlow", PageTitle: "Inventory", CurrentPage: PageInventory},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				batches []model.Batch
				items   []model.InventoryItem
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				batches, err = h.API.Batches.List(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				items, err = h.API.Inventory.List(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			var total float64
			for _, it := range items {
				total += it.Quantity
			}
			data["Batches"] = batches
			data["Items"] = items
			data["TotalQuantity"] = total
			return nil
		},
	})
}

// CreateInventory moves part of a batch into storage.
// POST /inventory/items.
func (h *UIHandlers) CreateInventory(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/inventory"})
		return
	}
	req := model.CreateInventoryRequest{
		BatchID:  formValue(r, "batch_id"),
		Location: formValue(r, "location"),
	}
	qty := formValue(r, "quantity")

	h.mutate(w, r, mutation{
		Redirect: "/inventory",
		Success:  toast("Inventory updated."),
		Run: func(ctx context.Context) error {
			fv := validation.New().
				Validate("batch_id", req.BatchID, validation.Required("Batch", 64)).
				Validate("location", req.Location, validation.Required("Storage location", 120)).
				Validate("quantity", qty, validation.Positive("Quantity"))
			if err := invalid(fv, "batch_id", "location", "quantity"); err != nil {
				return err
			}
			req.Quantity = validation.Float(qty)
			_, err := h.API.Inventory.Create(ctx, req)
			return err
		},
	})
}
