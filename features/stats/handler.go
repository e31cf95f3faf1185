package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"tomekeeper/backend/internal/middleware"
)

type KnowledgeBaseRepo interface {
	Count(ctx context.Context) (int, error)
}

type DocumentRepo interface {
	CountDocuments(ctx context.Context) (int, error)
	CountChunks(ctx context.Context) (int, error)
}

type Handler struct {
	kbRepo  KnowledgeBaseRepo
	docRepo DocumentRepo
}

func NewHandler(kbRepo KnowledgeBaseRepo, docRepo DocumentRepo) *Handler {
	return &Handler{kbRepo: kbRepo, docRepo: docRepo}
}

type StatsResponse struct {
	KnowledgeBases int `json:"knowledge_bases"`
	Documents      int `json:"documents"`
	Chunks         int `json:"chunks"`
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	correlationID := middleware.GetCorrelationID(ctx)

	kbCount, err := h.kbRepo.Count(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count knowledge bases", "error", err, "correlationId", correlationID)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count knowledge bases", http.StatusInternalServerError)
		return
	}

	docCount, err := h.docRepo.CountDocuments(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count documents", "error", err, "correlationId", correlationID)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count documents", http.StatusInternalServerError)
		return
	}

	chunkCount, err := h.docRepo.CountChunks(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count chunks", "error", err, "correlationId", correlationID)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count chunks", http.StatusInternalServerError)
		return
	}

	resp := StatsResponse{
		KnowledgeBases: kbCount,
		Documents:      docCount,
		Chunks:         chunkCount,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": resp}); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
