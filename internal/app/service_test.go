package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MonsieurBarti/quizz-webapp/internal/app"
	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/MonsieurBarti/quizz-webapp/internal/infra/memory"
	"github.com/MonsieurBarti/quizz-webapp/internal/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fixture is a published quizz of three questions. Each question has a right and a wrong choice.
type fixture struct {
	service   *app.TakerService
	catalog   *memory.Catalog
	players   *memory.PlayerRepository
	attempts  *memory.AttemptRepository
	responses *memory.ResponseRepository
	board     *memory.Leaderboard
	metrics   *metrics.Metrics

	quizzID   string
	questions []domain.Question
	right     []string
	wrong     []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		catalog:   memory.NewCatalog(),
		players:   memory.NewPlayerRepository(),
		attempts:  memory.NewAttemptRepository(),
		responses: memory.NewResponseRepository(),
		board:     memory.NewLeaderboard(),
		metrics:   metrics.New(prometheus.NewRegistry()),
		quizzID:   uuid.NewString(),
	}
	f.catalog.AddQuizz(domain.Quizz{ID: f.quizzID, Title: "Arithmetic", IsPublished: true, CreatedBy: uuid.NewString()})
	for i := 1; i <= 3; i++ {
		right, wrong := uuid.NewString(), uuid.NewString()
		question := domain.Question{
			ID:      uuid.NewString(),
			QuizzID: f.quizzID,
			Text:    "question",
			Order:   i,
			Choices: []domain.Choice{{ID: right, Text: "right"}, {ID: wrong, Text: "wrong"}},
		}
		f.catalog.AddQuestion(question, right)
		f.questions = append(f.questions, question)
		f.right = append(f.right, right)
		f.wrong = append(f.wrong, wrong)
	}

	f.service = app.NewTakerServiceWithClock(app.Dependencies{
		Players:     f.players,
		Attempts:    f.attempts,
		Responses:   f.responses,
		Answers:     memory.NewAnswerReader(f.catalog, time.Minute),
		Questions:   f.catalog,
		Quizzes:     f.catalog,
		Leaderboard: f.board,
		Tx:          memory.NewTransactor(),
		Metrics:     f.metrics,
	}, func() time.Time { return fixedNow })
	return f
}

func boolPtr(v bool) *bool { return &v }

func TestRejectedCommandsKeepErrorIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: "nope", PlayerID: uuid.NewString()})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) || validation.Field != "quizzId" {
		t.Fatalf("expected quizzId validation error, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCommandsAreCounted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	playerID := uuid.NewString()

	if _, err := f.service.SavePlayer(ctx, app.SavePlayerInput{Email: "carol@example.com"}); err != nil {
		t.Fatalf("save player: %v", err)
	}
	if _, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: playerID}); err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	completedAt := fixedNow
	if _, err := f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: playerID, CompletedAt: &completedAt}); err != nil {
		t.Fatalf("complete attempt: %v", err)
	}
	_, _ = f.service.SaveAttempt(ctx, app.SaveAttemptInput{QuizzID: f.quizzID, PlayerID: playerID, IsCorrect: boolPtr(true)})

	if got := testutil.ToFloat64(f.metrics.PlayersRegistered); got != 1 {
		t.Fatalf("expected 1 player registered, got %v", got)
	}
	if got := testutil.ToFloat64(f.metrics.AttemptsStarted); got != 1 {
		t.Fatalf("expected 1 attempt started, got %v", got)
	}
	if got := testutil.ToFloat64(f.metrics.AttemptsCompleted); got != 1 {
		t.Fatalf("expected 1 attempt completed, got %v", got)
	}
	if got := testutil.ToFloat64(f.metrics.RejectedOperations.WithLabelValues("save_attempt", "attempt_completed")); got != 1 {
		t.Fatalf("expected 1 rejection, got %v", got)
	}
}

func TestRejectedQueriesAreCounted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.service.NextQuestion(ctx, uuid.NewString(), ""); !errors.Is(err, domain.ErrQuizzNotFound) {
		t.Fatalf("expected ErrQuizzNotFound, got %v", err)
	}
	if _, err := f.service.NextQuestion(ctx, f.quizzID, uuid.NewString()); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	if _, err := f.service.Leaderboard(ctx, "quiz-1", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := f.service.SubscribeLeaderboard(ctx, "quiz-1"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	rejected := f.metrics.RejectedOperations
	cases := []struct {
		operation, reason string
	}{
		{"next_question", "quizz_not_found"},
		{"next_question", "question_not_found"},
		{"leaderboard", "invalid_input"},
		{"subscribe_leaderboard", "invalid_input"},
	}
	for _, c := range cases {
		if got := testutil.ToFloat64(rejected.WithLabelValues(c.operation, c.reason)); got != 1 {
			t.Fatalf("expected 1 %s/%s rejection, got %v", c.operation, c.reason, got)
		}
	}
}
