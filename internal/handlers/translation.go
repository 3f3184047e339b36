package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/traduz/apiserver/internal/services"
	"github.com/traduz/apiserver/internal/store"
	"github.com/traduz/apiserver/internal/translator"
	"github.com/traduz/apiserver/types"
)

const msgTranslationNotFound = "Tradução não encontrada"

// TranslationHandler serves translation, detection, and history routes.
type TranslationHandler struct {
	translations *services.TranslationService
	logger       *slog.Logger
}

func NewTranslationHandler(translations *services.TranslationService, logger *slog.Logger) *TranslationHandler {
	return &TranslationHandler{translations: translations, logger: logger}
}

// TranslationRouter registers the translation routes. The caller must
// have applied the auth middleware.
func TranslationRouter(r chi.Router, translations *services.TranslationService, logger *slog.Logger) {
	handler := NewTranslationHandler(translations, logger)

	r.Post("/translate", handler.Translate)
	r.Post("/detect", handler.Detect)
	r.Get("/translations", handler.History)
	r.Delete("/translations/{translationID}", handler.Delete)
	r.Delete("/translations", handler.Clear)
}

type TranslateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type TranslateResponse struct {
	TranslatedText   string `json:"translated_text"`
	DetectedLanguage string `json:"detected_language"`
}

type DetectRequest struct {
	Text string `json:"text"`
}

type DetectResponse struct {
	DetectedLanguage string  `json:"detected_language"`
	Confidence       float64 `json:"confidence"`
}

type HistoryResponse struct {
	Translations []types.Translation `json:"translations"`
}

// ClearResponse reports how many history entries were removed.
type ClearResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// Translate forwards the text to the upstream service and records the
// result in the user's history. The target defaults to the user's
// preferred language.
func (h *TranslationHandler) Translate(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	if req.Text == "" {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	output, err := h.translations.Translate(r.Context(), user, req.Text, req.Source, req.Target)
	if err != nil {
		var upstream *translator.UpstreamError
		if errors.As(err, &upstream) {
			h.logger.Error("translate upstream", "user_id", user.ID, "error", err)
			writeMessage(w, http.StatusInternalServerError, "Erro ao traduzir texto")
			return
		}
		h.logger.Error("translate", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro inesperado")
		return
	}

	detected := output.DetectedLanguage
	if detected == "" {
		detected = "unknown"
	}

	writeJSON(w, http.StatusOK, TranslateResponse{
		TranslatedText:   output.Record.TranslatedText,
		DetectedLanguage: detected,
	})
}

// Detect returns the upstream's language guess without persisting
// anything.
func (h *TranslationHandler) Detect(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}
	if req.Text == "" {
		writeMessage(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	detection, err := h.translations.Detect(r.Context(), req.Text)
	if err != nil {
		h.logger.Error("detect upstream", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro ao detectar idioma")
		return
	}

	writeJSON(w, http.StatusOK, DetectResponse{
		DetectedLanguage: detection.Language,
		Confidence:       detection.Confidence,
	})
}

// History lists the user's translations, newest first.
func (h *TranslationHandler) History(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	translations, err := h.translations.History(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("list history", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro ao buscar histórico de traduções")
		return
	}

	writeJSON(w, http.StatusOK, HistoryResponse{Translations: translations})
}

// Delete removes a single owned history entry. Another user's entry is
// indistinguishable from a missing one.
func (h *TranslationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "translationID"))
	if err != nil || id < 1 {
		writeMessage(w, http.StatusNotFound, msgTranslationNotFound)
		return
	}

	if err := h.translations.DeleteRecord(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, msgTranslationNotFound)
			return
		}
		h.logger.Error("delete translation", "user_id", user.ID, "translation_id", id, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro ao remover tradução")
		return
	}

	writeMessage(w, http.StatusOK, "Tradução removida com sucesso")
}

// Clear removes the user's whole history.
func (h *TranslationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	deleted, err := h.translations.ClearHistory(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("clear history", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Erro ao limpar histórico de traduções")
		return
	}

	writeJSON(w, http.StatusOK, ClearResponse{
		Message: "Histórico de traduções limpo com sucesso",
		Deleted: deleted,
	})
}
