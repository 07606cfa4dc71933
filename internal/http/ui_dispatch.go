package httpx

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
	"github.com/aquaflow/aquaflow-ui/internal/http/validation"
)

// Dispatch renders shipments.
// GET /dispatch.
func (h *UIHandlers) Dispatch(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dispatch - AquaFlow", PageTitle: "Dispatch", CurrentPage: PageDispatch},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				batches    []model.Batch
				dispatches []model.Dispatch
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				batches, err = h.API.Batches.List(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				dispatches, err = h.API.Dispatch.List(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			var revenue float64
			for _, d := range dispatches {
				revenue += d.SellingPrice
			}
			data["Batches"] = batches
			data["Dispatches"] = dispatches
			data["Revenue"] = revenue
			return nil
		},
	})
}

// CreateDispatch ships a batch to a customer.
// POST /dispatch/orders.
func (h *UIHandlers) CreateDispatch(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/dispatch"})
		return
	}
	req := model.CreateDispatchRequest{
		BatchID:      formValue(r, "batch_id"),
		CustomerName: formValue(r, "customer_name"),
		Country:      formValue(r, "country"),
		DispatchDate: formValue(r, "dispatch_date"),
	}
	price := formValue(r, "selling_price")

	h.mutate(w, r, mutation{
		Redirect: "/dispatch",
		Success:  toast("Dispatch created for " + req.CustomerName + "."),
		Run: func(ctx context.Context) error {
			fv := validation.New().
				Validate("batch_id", req.BatchID, validation.Required("Batch", 64)).
				Validate("customer_name", req.CustomerName, validation.Required("Customer", 120)).
				Validate("country", req.Country, validation.Required("Country", 64)).
				Validate("selling_price", price, validation.Positive("Selling price")).
				Validate("dispatch_date", req.DispatchDate, validation.Date("Dispatch date"))
			if err := invalid(fv, "batch_id", "customer_name", "country", "selling_price", "dispatch_date"); err != nil {
				return err
			}
			req.SellingPrice = validation.Float(price)
			_, err := h.API.Dispatch.Create(ctx, req)
			return err
		},
	})
}
