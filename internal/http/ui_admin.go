package httpx

import (
	"context"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/aquaflow/aquaflow-ui/internal/apiclient"
	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
	"github.com/aquaflow/aquaflow-ui/internal/http/validation"
)

// ExportKinds lists the downloads offered on the dashboard.
//
//nolint:gochecknoglobals // static read-only lookup
var ExportKinds = []struct {
	Kind  apiclient.ExportKind
	Label string
}{
	{apiclient.ExportBatches, "Batches"},
	{apiclient.ExportPayments, "Payments"},
	{apiclient.ExportProcessing, "Processing"},
}

// Admin renders the plant analytics dashboard and payments.
// GET /admin.
func (h *UIHandlers) Admin(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard - AquaFlow", PageTitle: "Admin Dashboard", CurrentPage: PageAdmin},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				dash     *model.AdminDashboard
				payments []model.Payment
				farmers  []model.Farmer
				batches  []model.Batch
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				dash, err = h.API.Dashboard.Admin(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				payments, err = h.API.Payments.List(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				farmers, err = h.API.Farmers.List(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				batches, err = h.API.Batches.List(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			data["Dashboard"] = dash
			data["Payments"] = payments
			data["Farmers"] = farmers
			data["Batches"] = batches
			data["Exports"] = ExportKinds
			return nil
		},
	})
}

// CreatePayment raises a payment for a farmer's batch.
// POST /admin/payments.
func (h *UIHandlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/admin"})
		return
	}
	req := model.CreatePaymentRequest{
		FarmerID: formValue(r, "farmer_id"),
		BatchID:  formValue(r, "batch_id"),
	}
	price, deductions := formValue(r, "price_per_kg"), formValue(r, "deductions")
	if deductions == "" {
		deductions = "0"
	}

	h.mutate(w, r, mutation{
		Redirect: "/admin",
		Success:  toast("Payment created."),
		Run: func(ctx context.Context) error {
			fv := validation.New().
				Validate("farmer_id", req.FarmerID, validation.Required("Farmer", 64)).
				Validate("batch_id", req.BatchID, validation.Required("Batch", 64)).
				Validate("price_per_kg", price, validation.Positive("Price per kg")).
				Validate("deductions", deductions, validation.Number("Deductions", 0))
			if err := invalid(fv, "farmer_id", "batch_id", "price_per_kg", "deductions"); err != nil {
				return err
			}
			req.PricePerKG = validation.Float(price)
			req.Deductions = validation.Float(deductions)
			_, err := h.API.Payments.Create(ctx, req)
			return err
		},
	})
}

// UpdatePaymentStatus marks a payment pending or paid.
// POST /admin/payments/{id}/status.
func (h *UIHandlers) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/admin"})
		return
	}
	id := r.PathValue("id")
	raw := formValue(r, "status")

	h.mutate(w, r, mutation{
		Redirect: "/admin",
		Success:  toast("Payment marked " + raw + "."),
		Run: func(ctx context.Context) error {
			status, ok := model.ParsePaymentStatus(raw)
			if !ok {
				return apperrors.ValidationField("status", "Choose pending or paid.")
			}
			return h.API.Payments.UpdateStatus(ctx, id, status)
		},
	})
}

// Export streams a spreadsheet to the browser as an attachment.
// POST /admin/export/{kind}.
func (h *UIHandlers) Export(w http.ResponseWriter, r *http.Request) {
	kind, ok := apiclient.ParseExportKind(r.PathValue("kind"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	dl, err := h.API.Export.Download(r.Context(), kind)
	h.Metrics.ObserveExport(string(kind), err)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			h.forceLogout(w, r)
			return
		}
		h.logger().WarnContext(r.Context(), "export failed", "kind", string(kind), "error", err)
		if IsHTMX(r) {
			HTMX(w).Toast("The export could not be generated.", ToastError).NoSwap()
			return
		}
		http.Redirect(w, r, withQuery("/admin", "error", ErrorExportFailed), http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+dl.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(dl.Data); err != nil {
		h.logger().WarnContext(r.Context(), "export write failed", "kind", string(kind), "error", err)
	}
}
