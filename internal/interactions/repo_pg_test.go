package interactions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	cta := "Ver projetos"
	in := Interaction{
		ID:             "11111111-1111-1111-1111-111111111111",
		RequestID:      "req-1",
		ClientKey:      "hash",
		Question:       "Onde trabalhou?",
		Answer:         "Na empresa X.",
		CTA0:           &cta,
		ImageGenerated: true,
		ModelText:      "grok-4-fast-reasoning",
		ModelImage:     "imagen-4.0-fast-generate-001",
		Status:         StatusSuccess,
		DurationMs:     1200,
		HistoryTurns:   2,
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO chat_interactions").
		WithArgs(
			in.ID,
			in.RequestID,
			in.ClientKey,
			in.Question,
			in.Answer,
			cta,
			nil, // cta1
			true,
			nil, // image_prompt
			nil, // image_key
			in.ModelText,
			in.ModelImage,
			in.Status,
			nil, // error_message
			in.DurationMs,
			in.HistoryTurns,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

var interactionColumns = []string{
	"id", "request_id", "client_key", "question", "answer", "cta0", "cta1", "image_generated",
	"image_prompt", "image_key", "model_text", "model_image", "status", "error_message", "duration_ms",
	"history_turns", "created_at",
}

func TestPGRepoList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows(interactionColumns).
		AddRow("b", "req-b", "", "q2", "a2", "cta", nil, false, nil, nil, "grok", "", StatusSuccess, nil, int64(10), 0, now).
		AddRow("a", "req-a", "", "q1", "a1", nil, nil, true, "sunset", "backgrounds/x.png", "grok", "imagen", StatusSuccess, nil, int64(20), 1, now.Add(-time.Minute))
	mock.ExpectQuery("SELECT (.+) FROM chat_interactions").
		WithArgs(5, 0).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	items, err := repo.List(context.Background(), 5, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].CTA0 == nil || *items[0].CTA0 != "cta" || items[0].CTA1 != nil {
		t.Fatalf("unexpected ctas %+v", items[0])
	}
	if items[1].ImageKey == nil || *items[1].ImageKey != "backgrounds/x.png" || !items[1].ImageGenerated {
		t.Fatalf("unexpected image fields %+v", items[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM chat_interactions").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(interactionColumns))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
