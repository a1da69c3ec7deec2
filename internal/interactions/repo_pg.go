package interactions

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, request_id, client_key, question, answer, cta0, cta1, image_generated,
       image_prompt, image_key, model_text, model_image, status, error_message, duration_ms,
       history_turns, created_at`

// Create inserts a new interaction.
func (r *PGRepo) Create(ctx context.Context, in Interaction) error {
	const query = `
INSERT INTO chat_interactions (
	id, request_id, client_key, question, answer, cta0, cta1, image_generated,
	image_prompt, image_key, model_text, model_image, status, error_message, duration_ms,
	history_turns, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.DB.ExecContext(ctx, query,
		in.ID,
		in.RequestID,
		in.ClientKey,
		in.Question,
		in.Answer,
		nullString(in.CTA0),
		nullString(in.CTA1),
		in.ImageGenerated,
		nullString(in.ImagePrompt),
		nullString(in.ImageKey),
		in.ModelText,
		in.ModelImage,
		in.Status,
		nullString(in.ErrorMessage),
		in.DurationMs,
		in.HistoryTurns,
		in.CreatedAt,
	)
	return err
}

// GetByID returns an interaction by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Interaction, error) {
	query := `SELECT ` + selectColumns + `
FROM chat_interactions
WHERE id = $1
LIMIT 1`
	in, err := scanInteraction(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Interaction{}, ErrNotFound
	}
	return in, err
}

// List returns interactions newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Interaction, error) {
	limit, offset = ClampPage(limit, offset)
	query := `SELECT ` + selectColumns + `
FROM chat_interactions
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Interaction, 0, limit)
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInteraction(row rowScanner) (Interaction, error) {
	var in Interaction
	var cta0, cta1, imagePrompt, imageKey, errorMessage sql.NullString
	if err := row.Scan(
		&in.ID,
		&in.RequestID,
		&in.ClientKey,
		&in.Question,
		&in.Answer,
		&cta0,
		&cta1,
		&in.ImageGenerated,
		&imagePrompt,
		&imageKey,
		&in.ModelText,
		&in.ModelImage,
		&in.Status,
		&errorMessage,
		&in.DurationMs,
		&in.HistoryTurns,
		&in.CreatedAt,
	); err != nil {
		return Interaction{}, err
	}
	in.CTA0 = stringPtr(cta0)
	in.CTA1 = stringPtr(cta1)
	in.ImagePrompt = stringPtr(imagePrompt)
	in.ImageKey = stringPtr(imageKey)
	in.ErrorMessage = stringPtr(errorMessage)
	return in, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
