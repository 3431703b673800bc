package transport

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Aadhavan2906/task-manager/internal/agent"
	"github.com/Aadhavan2906/task-manager/model"
)

type createAgentRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

func handleCreateAgent(dir agent.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}

		var req createAgentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid JSON body"))
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Name == "" || req.Email == "" {
			WriteError(w, model.NewBadRequestError("name and email are required"))
			return
		}

		a := model.Agent{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Email:     req.Email,
			Mobile:    strings.TrimSpace(req.Mobile),
			CreatedBy: rctx.SubjectID,
			Active:    true,
			CreatedAt: time.Now().UTC(),
		}
		if err := dir.Create(r.Context(), a); err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, a)
	}
}

func handleListAgents(dir agent.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}

		agents, err := dir.ListActive(r.Context(), rctx.SubjectID)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"agents": agents})
	}
}

func handleGetAgent(dir agent.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}

		a, err := dir.Get(r.Context(), rctx.SubjectID, chi.URLParam(r, "agentID"))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, a)
	}
}

func handleDeactivateAgent(dir agent.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rctx := model.RequestContextFrom(r.Context())
		if rctx == nil {
			WriteError(w, model.NewUnauthorizedError("missing request context"))
			return
		}

		agentID := chi.URLParam(r, "agentID")
		updated, err := dir.Deactivate(r.Context(), rctx.SubjectID, agentID)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)
	}
}
