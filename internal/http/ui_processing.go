package httpx

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
	"github.com/aquaflow/aquaflow-ui/internal/http/validation"
)

// ProcessingStages are the plant's stages in the order a batch passes through them.
//
//nolint:gochecknoglobals // static read-only lookup
var ProcessingStages = []string{"Washing", "Peeling", "Grading", "Packing"}

// stageView pairs a plant stage with the record for the selected batch, if any.
type stageView struct {
	Name   string
	Record *model.ProcessingStage
}

func stageTimeline(stages []model.ProcessingStage) []stageView {
	out := make([]stageView, 0, len(ProcessingStages))
	for _, name := range ProcessingStages {
		v := stageView{Name: name}
		for i := range stages {
			if stages[i].StageName == name {
				v.Record = &stages[i]
				break
			}
		}
		out = append(out, v)
	}
	return out
}

// Processing renders batches and the stage timeline of the batch picked with ?batch=.
// GET /processing.
func (h *UIHandlers) Processing(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("batch")
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Processing - AquaFlow", PageTitle: "Processing", CurrentPage: PageProcessing},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				batches []model.Batch
				stages  []model.ProcessingStage
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				batches, err = h.API.Batches.List(gctx)
				return err
			})
			if selected != "" {
				g.Go(func() error {
					var err error
					stages, err = h.API.Processing.ListByBatch(gctx, selected)
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			data["Batches"] = batches
			data["Stages"] = ProcessingStages
			data["SelectedBatch"] = selected
			if selected != "" {
				data["Timeline"] = stageTimeline(stages)
			}
			return nil
		},
	})
}

// CreateStage records a processing stage for a batch.
// POST /processing/stages.
func (h *UIHandlers) CreateStage(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/processing"})
		return
	}
	req := model.CreateProcessingStageRequest{
		BatchID:        formValue(r, "batch_id"),
		StageName:      formValue(r, "stage_name"),
		AssignedPerson: formValue(r, "assigned_person"),
	}
	input, output := formValue(r, "input_weight"), formValue(r, "output_weight")
	page := "/processing"
	if req.BatchID != "" {
		page = withQuery(page, "batch", req.BatchID)
	}

	h.mutate(w, r, mutation{
		Redirect: page,
		Success:  toast(req.StageName + " recorded for " + req.BatchID + "."),
		Run: func(ctx context.Context) error {
			fv := validation.New().
				Validate("batch_id", req.BatchID, validation.Required("Batch", 64)).
				Validate("stage_name", req.StageName, validation.OneOf("Stage", ProcessingStages)).
				Validate("assigned_person", req.AssignedPerson, validation.Required("Assigned person", 120)).
				Validate("input_weight", input, validation.Positive("Input weight")).
				Validate("output_weight", output, validation.Number("Output weight", 0))
			if err := invalid(fv, "batch_id", "stage_name", "assigned_person", "input_weight", "output_weight"); err != nil {
				return err
			}
			req.InputWeight = validation.Float(input)
			req.OutputWeight = validation.Float(output)
			if req.OutputWeight > req.InputWeight {
				return invalidField("output_weight", "Output weight cannot exceed input weight.")
			}
			_, err := h.API.Processing.Create(ctx, req)
			return err
		},
	})
}
