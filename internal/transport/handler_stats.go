package transport

import (
	"net/http"

	"github.com/Aadhavan2906/task-manager/internal/distribution"
	"github.com/Aadhavan2906/task-manager/model"
)

func handleStats(svc *distribution.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}

		summary, err := svc.Stats(r.Context(), rctx)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, summary)
	}
}
