package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/traduz/apiserver/types"
)

// TranslationRepository handles persistence for translation history.
type TranslationRepository struct {
	db *sql.DB
}

func NewTranslationRepository(db *sql.DB) *TranslationRepository {
	return &TranslationRepository{db: db}
}

func (r *TranslationRepository) Create(ctx context.Context, translation types.Translation) (types.Translation, error) {
	translation.CreatedAt = time.Now()

	const query = `
		INSERT INTO translation_history (user_id, source_text, translated_text,
			source_language, target_language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		translation.UserID,
		translation.SourceText,
		translation.TranslatedText,
		translation.SourceLanguage,
		translation.TargetLanguage,
		translation.CreatedAt,
	).Scan(&translation.ID); err != nil {
		return types.Translation{}, err
	}
	return translation, nil
}

// ListByUser returns the user's history newest first.
func (r *TranslationRepository) ListByUser(ctx context.Context, userID int) ([]types.Translation, error) {
	const query = `
		SELECT id, user_id, source_text, translated_text,
			source_language, target_language, created_at
		FROM translation_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	translations := []types.Translation{}
	for rows.Next() {
		var t types.Translation
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.SourceText,
			&t.TranslatedText,
			&t.SourceLanguage,
			&t.TargetLanguage,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		translations = append(translations, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return translations, nil
}

// Delete removes a single entry. It returns ErrNotFound both when the id
// does not exist and when it belongs to another user, so callers cannot
// probe for other users' records.
func (r *TranslationRepository) Delete(ctx context.Context, userID, id int) error {
	const query = `DELETE FROM translation_history WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllByUser clears the user's history and reports how many entries
// were removed.
func (r *TranslationRepository) DeleteAllByUser(ctx context.Context, userID int) (int64, error) {
	const query = `DELETE FROM translation_history WHERE user_id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
