package httpx

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
)

// BatchDetail renders one batch with its QR label and processing history.
// GET /batch/{id}.
func (h *UIHandlers) BatchDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Batch " + id + " - AquaFlow", PageTitle: "Batch " + id, CurrentPage: PageBatch},
		Fetch: func(ctx context.Context, data map[string]any) error {
			if id == "" {
				return apperrors.NotFound("Batch not found.")
			}
			var (
				batch  *model.Batch
				stages []model.ProcessingStage
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				batch, err = h.API.Batches.Get(gctx, id)
				return err
			})
			g.Go(func() error {
				var err error
				stages, err = h.API.Processing.ListByBatch(gctx, id)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			data["Batch"] = batch
			data["Timeline"] = stageTimeline(stages)
			data["ProcessingStages"] = stages
			return nil
		},
	})
}
