package transport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Aadhavan2906/task-manager/internal/distribution"
	"github.com/Aadhavan2906/task-manager/model"
)

// maxDistributeBody bounds the request body at 10 MiB, roughly 50k records.
const maxDistributeBody = 10 << 20

type distributeRequest struct {
	FileName       string           `json:"file_name"`
	FileSize       int64            `json:"file_size"`
	Items          []model.WorkItem `json:"items"`
	IdempotencyKey string           `json:"idempotency_key"`
}

func handleDistribute(svc *distribution.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxDistributeBody)
		var req distributeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		if req.IdempotencyKey == "" {
			req.IdempotencyKey = r.Header.Get("X-Idempotency-Key")
		}

		receipt, err := svc.Distribute(r.Context(), rctx, req.Items, distribution.UploadMeta{
			FileName:       req.FileName,
			FileSize:       req.FileSize,
			IdempotencyKey: req.IdempotencyKey,
		})
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, receipt)
	}
}

func handleListDistributions(svc *distribution.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}

		assigned, err := svc.ListAssigned(r.Context(), rctx)
		if err != nil {
			WriteError(w, err)
			return
		}
		received, err := svc.ListReceived(r.Context(), rctx)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"assigned": assigned,
			"received": received,
		})
	}
}

type updateBatchRequest struct {
	Status         string `json:"status"`
	CompletedCount *int   `json:"completed_count"`
}

func handleUpdateBatchStatus(svc *distribution.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}

		batchID := chi.URLParam(r, "batchID")
		var req updateBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		updated, err := svc.UpdateBatch(r.Context(), rctx, batchID, req.Status, req.CompletedCount)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)
	}
}
