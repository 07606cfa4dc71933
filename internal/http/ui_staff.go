package httpx

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
	"github.com/aquaflow/aquaflow-ui/internal/http/validation"
)

// SizeGrades are the intake grades offered on the batch form, with their count per kg.
//
//nolint:gochecknoglobals // static read-only lookup
var SizeGrades = []struct{ Value, Label string }{
	{"Small", "Small (20-30 count/kg)"},
	{"Medium", "Medium (15-20 count/kg)"},
	{"Large", "Large (10-15 count/kg)"},
	{"Jumbo", "Jumbo (5-10 count/kg)"},
}

func sizeGradeValues() []string {
	out := make([]string, len(SizeGrades))
	for i, g := range SizeGrades {
		out[i] = g.Value
	}
	return out
}

// Staff renders the intake page: farmers, batches and, after a create, the new batch's QR.
// GET /staff.
func (h *UIHandlers) Staff(w http.ResponseWriter, r *http.Request) {
	qr := r.URL.Query().Get("qr")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Intake - AquaFlow", PageTitle: "Intake", CurrentPage: PageStaff},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				farmers []model.Farmer
				batches []model.Batch
			)
			g, gctx := errgroup.WithContext(ctx)
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

			data["Farmers"] = farmers
			data["Batches"] = batches
			data["SizeGrades"] = SizeGrades
			if qr != "" {
				for i := range batches {
					if batches[i].BatchID == qr {
						data["NewBatch"] = &batches[i]
						break
					}
				}
			}
			return nil
		},
	})
}

// CreateBatch records an intake and reopens the page with the batch's QR dialog.
// POST /staff/batches.
func (h *UIHandlers) CreateBatch(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/staff"})
		return
	}
	req := model.CreateBatchRequest{
		FarmerID:  formValue(r, "farmer_id"),
		SizeGrade: formValue(r, "size_grade"),
		Location:  formValue(r, "location"),
	}
	weight := formValue(r, "weight_kg")
	fv := validation.New().
		Validate("farmer_id", req.FarmerID, validation.Required("Farmer", 64)).
		Validate("weight_kg", weight, validation.Positive("Weight")).
		Validate("size_grade", req.SizeGrade, validation.OneOf("Size grade", sizeGradeValues())).
		Validate("location", req.Location, validation.Required("Location", 120))
	if err := invalid(fv, "farmer_id", "weight_kg", "size_grade", "location"); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/staff"})
		return
	}
	req.WeightKG = validation.Float(weight)

	var batch *model.Batch
	h.mutate(w, r, mutation{
		Redirect: "/staff",
		Next:     func() string { return withQuery("/staff", "qr", batch.BatchID) },
		Success:  func() string { return "Batch " + batch.BatchID + " created." },
		Run: func(ctx context.Context) error {
			var err error
			batch, err = h.API.Batches.Create(ctx, req)
			return err
		},
	})
}

// CreateFarmer registers a supplier.
// POST /staff/farmers.
func (h *UIHandlers) CreateFarmer(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/staff"})
		return
	}
	req := model.CreateFarmerRequest{
		Name:    formValue(r, "name"),
		Contact: formValue(r, "contact"),
		Address: formValue(r, "address"),
	}
	h.mutate(w, r, mutation{
		Redirect: "/staff",
		Success:  toast("Farmer " + req.Name + " added."),
		Run: func(ctx context.Context) error {
			fv := validation.New().
				Validate("name", req.Name, validation.Required("Name", 120)).
				Validate("contact", req.Contact, validation.Required("Contact", 64)).
				Validate("address", req.Address, validation.Optional("Address", 255))
			if err := invalid(fv, "name", "contact", "address"); err != nil {
				return err
			}
			_, err := h.API.Farmers.Create(ctx, req)
			return err
		},
	})
}
