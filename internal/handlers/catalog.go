package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/word-battle/pkg/inventory"
	"github.com/jwebster45206/word-battle/pkg/question"
)

type QuestionsResponse struct {
	Count     int                 `json:"count"`
	Questions []question.Question `json:"questions"`
}

// QuestionsHandler serves the loaded question bank.
type QuestionsHandler struct {
	bank   *question.Bank
	logger *slog.Logger
}

func NewQuestionsHandler(bank *question.Bank, logger *slog.Logger) *QuestionsHandler {
	return &QuestionsHandler{bank: bank, logger: logger}
}

func (h *QuestionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, QuestionsResponse{
		Count:     h.bank.Len(),
		Questions: h.bank.Questions(),
	})
}

type InventoryResponse struct {
	Items []inventory.Item `json:"items"`
}

// InventoryHandler serves the display-only inventory.
type InventoryHandler struct {
	logger *slog.Logger
}

func NewInventoryHandler(logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{logger: logger}
}

func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, InventoryResponse{Items: inventory.Default()})
}
