package types

import "time"

// Translation is a single entry in a user's translation history.
// Entries are immutable once created; they are only ever appended
// and deleted.
type Translation struct {
	// ID is the unique identifier of the history entry.
	ID int `json:"id" db:"id"`

	// UserID references the owning user. Entries are only reachable
	// through the user they were created under.
	UserID int `json:"user_id" db:"user_id"`

	// SourceText is the text the user submitted.
	SourceText string `json:"source_text" db:"source_text"`

	// TranslatedText is the upstream service's translation.
	TranslatedText string `json:"translated_text" db:"translated_text"`

	// SourceLanguage is the language the text was translated from. When
	// the user asked for auto-detection this is the detected language.
	SourceLanguage string `json:"source_language" db:"source_language"`

	// TargetLanguage is the language the text was translated into.
	TargetLanguage string `json:"target_language" db:"target_language"`

	// CreatedAt is the timestamp when the translation was performed.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
