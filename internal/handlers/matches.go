package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jwebster45206/word-battle/internal/arena"
	"github.com/jwebster45206/word-battle/pkg/battle"
	"github.com/jwebster45206/word-battle/pkg/question"
)

// Arena is the subset of arena.Manager the match routes need.
type Arena interface {
	Create(ctx context.Context) (battle.Match, error)
	Start(ctx context.Context, id uuid.UUID) (arena.Turn, error)
	Submit(ctx context.Context, id uuid.UUID, choice question.Category) (arena.Turn, error)
	Hint(ctx context.Context, id uuid.UUID) (string, error)
	Get(ctx context.Context, id uuid.UUID) (battle.Match, error)
}

var _ Arena = (*arena.Manager)(nil)

type AnswerRequest struct {
	Choice string `json:"choice"`
}

type HintResponse struct {
	Hint string `json:"hint"`
}

type MatchesHandler struct {
	arena  Arena
	logger *slog.Logger
}

func NewMatchesHandler(a Arena, logger *slog.Logger) *MatchesHandler {
	return &MatchesHandler{arena: a, logger: logger}
}

// Routes mounts the match endpoints:
//
//	POST /              create a match and start its first trial
//	GET  /{id}          current snapshot
//	POST /{id}/start    start a new trial
//	POST /{id}/answer   answer the current word
//	GET  /{id}/hint     hint for the current word
func (h *MatchesHandler) Routes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Post("/start", h.handleStart)
		r.Post("/answer", h.handleAnswer)
		r.Get("/hint", h.handleHint)
	})
}

func (h *MatchesHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	match, err := h.arena.Create(r.Context())
	if err != nil {
		h.logger.Error("Failed to create match", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create match")
		return
	}

	turn, err := h.arena.Start(r.Context(), match.ID)
	if err != nil {
		h.fail(w, match.ID, err)
		return
	}

	h.logger.Info("Match started", "match_id", match.ID.String())
	writeJSON(w, h.logger, http.StatusCreated, turn)
}

func (h *MatchesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	match, err := h.arena.Get(r.Context(), id)
	if err != nil {
		h.fail(w, id, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, match)
}

func (h *MatchesHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	turn, err := h.arena.Start(r.Context(), id)
	if err != nil {
		h.fail(w, id, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, turn)
}

func (h *MatchesHandler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid answer request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	choice, err := question.ParseCategory(req.Choice)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Choice must be countable or uncountable")
		return
	}

	turn, err := h.arena.Submit(r.Context(), id, choice)
	if err != nil {
		h.fail(w, id, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, turn)
}

func (h *MatchesHandler) handleHint(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	hint, err := h.arena.Hint(r.Context(), id)
	if err != nil {
		h.fail(w, id, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, HintResponse{Hint: hint})
}

func (h *MatchesHandler) matchID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Warn("Invalid match ID", "id", raw, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid match ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *MatchesHandler) fail(w http.ResponseWriter, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, arena.ErrMatchNotFound):
		writeError(w, h.logger, http.StatusNotFound, "Match not found")
	case errors.Is(err, arena.ErrNoQuestion):
		writeError(w, h.logger, http.StatusNotFound, "No word has been drawn yet")
	default:
		h.logger.Error("Match request failed", "match_id", id.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
	}
}
