package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/traduz/apiserver/internal/events"
	"github.com/traduz/apiserver/internal/translator"
	"github.com/traduz/apiserver/types"
)

// SourceAuto asks the upstream service to detect the source language.
const SourceAuto = "auto"

// TranslationRepository defines persistence operations for history entries.
type TranslationRepository interface {
	Create(ctx context.Context, translation types.Translation) (types.Translation, error)
	ListByUser(ctx context.Context, userID int) ([]types.Translation, error)
	Delete(ctx context.Context, userID, id int) error
	DeleteAllByUser(ctx context.Context, userID int) (int64, error)
}

// Translator is the outbound gateway to the translation service.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (translator.Result, error)
	Detect(ctx context.Context, text string) (translator.Detection, error)
}

// EventPublisher publishes notification events. *events.Bus satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// TranslateOutput is the outcome of a translate call: the persisted
// history entry plus the upstream's detection, empty when the upstream
// did not report one.
type TranslateOutput struct {
	Record           types.Translation
	DetectedLanguage string
}

// TranslationService encapsulates translation use-cases: calling the
// upstream service, recording history, and fanning out notifications.
type TranslationService struct {
	repo       TranslationRepository
	translator Translator
	publisher  EventPublisher
	logger     *slog.Logger
}

// NewTranslationService constructs the service. publisher may be nil,
// which disables notification events.
func NewTranslationService(repo TranslationRepository, tr Translator, publisher EventPublisher, logger *slog.Logger) *TranslationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslationService{
		repo:       repo,
		translator: tr,
		publisher:  publisher,
		logger:     logger,
	}
}

// Translate forwards the text upstream and appends the result to the
// user's history. An empty source means auto-detection; an empty target
// falls back to the user's preferred language.
func (s *TranslationService) Translate(ctx context.Context, user types.User, text, source, target string) (TranslateOutput, error) {
	if source == "" {
		source = SourceAuto
	}
	if target == "" {
		target = user.PreferredLanguage
	}

	result, err := s.translator.Translate(ctx, text, source, target)
	if err != nil {
		return TranslateOutput{}, err
	}

	sourceLanguage := source
	detected := ""
	if result.DetectedLanguage != nil {
		sourceLanguage = result.DetectedLanguage.Language
		detected = result.DetectedLanguage.Language
	}

	record, err := s.repo.Create(ctx, types.Translation{
		UserID:         user.ID,
		SourceText:     text,
		TranslatedText: result.TranslatedText,
		SourceLanguage: sourceLanguage,
		TargetLanguage: target,
	})
	if err != nil {
		return TranslateOutput{}, err
	}

	s.publishEvent(ctx, user, record)

	return TranslateOutput{Record: record, DetectedLanguage: detected}, nil
}

// Detect returns the upstream's best language guess for the text.
// Nothing is persisted.
func (s *TranslationService) Detect(ctx context.Context, text string) (translator.Detection, error) {
	return s.translator.Detect(ctx, text)
}

// History returns the user's translations, newest first.
func (s *TranslationService) History(ctx context.Context, userID int) ([]types.Translation, error) {
	return s.repo.ListByUser(ctx, userID)
}

// DeleteRecord removes one owned history entry.
func (s *TranslationService) DeleteRecord(ctx context.Context, userID, id int) error {
	return s.repo.Delete(ctx, userID, id)
}

// ClearHistory removes all of the user's entries and reports the count.
func (s *TranslationService) ClearHistory(ctx context.Context, userID int) (int64, error) {
	return s.repo.DeleteAllByUser(ctx, userID)
}

// publishEvent emits a notification event for users who opted in.
// Publishing is best-effort: failures are logged, never surfaced.
func (s *TranslationService) publishEvent(ctx context.Context, user types.User, record types.Translation) {
	if s.publisher == nil || !user.Notifications {
		return
	}

	data, err := json.Marshal(events.TranslationEvent{
		UserID:         user.ID,
		TranslationID:  record.ID,
		SourceLanguage: record.SourceLanguage,
		TargetLanguage: record.TargetLanguage,
		CreatedAt:      record.CreatedAt,
	})
	if err != nil {
		s.logger.Error("marshal translation event", "user_id", user.ID, "error", err)
		return
	}

	if _, err := s.publisher.Publish(ctx, events.TranslationsChannel, data, nil); err != nil {
		s.logger.Error("publish translation event", "user_id", user.ID, "error", err)
	}
}
