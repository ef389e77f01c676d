package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
	"github.com/google/uuid"
)

func TestCatalogWalksQuestionsInOrder(t *testing.T) {
	catalog := NewCatalog()
	quizzID := uuid.NewString()
	second := domain.Question{ID: uuid.NewString(), QuizzID: quizzID, Order: 2}
	first := domain.Question{ID: uuid.NewString(), QuizzID: quizzID, Order: 1}
	catalog.AddQuestion(second)
	catalog.AddQuestion(first)
	ctx := context.Background()

	got, err := catalog.FindNext(ctx, quizzID, "")
	if err != nil || got == nil || got.ID != first.ID {
		t.Fatalf("expected first question, got %+v, %v", got, err)
	}
	got, err = catalog.FindNext(ctx, quizzID, first.ID)
	if err != nil || got == nil || got.ID != second.ID {
		t.Fatalf("expected second question, got %+v, %v", got, err)
	}
	got, err = catalog.FindNext(ctx, quizzID, second.ID)
	if err != nil || got != nil {
		t.Fatalf("expected exhausted quizz, got %+v, %v", got, err)
	}
	if _, err := catalog.FindNext(ctx, quizzID, uuid.NewString()); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestCatalogHidesUnpublishedQuizzes(t *testing.T) {
	catalog := NewCatalog()
	draft := domain.Quizz{ID: uuid.NewString(), Title: "draft"}
	catalog.AddQuizz(draft)

	got, err := catalog.FindPublishedByID(context.Background(), draft.ID)
	if err != nil || got != nil {
		t.Fatalf("expected draft hidden, got %+v, %v", got, err)
	}
}

func TestCatalogStoresAnswerCorrectness(t *testing.T) {
	catalog := NewCatalog()
	right, wrong := uuid.NewString(), uuid.NewString()
	catalog.AddQuestion(domain.Question{
		ID:      uuid.NewString(),
		QuizzID: uuid.NewString(),
		Choices: []domain.Choice{{ID: right, Text: "4"}, {ID: wrong, Text: "5"}},
	}, right)

	answer, _ := catalog.LoadAnswer(context.Background(), right)
	if answer == nil || !answer.IsCorrect {
		t.Fatalf("expected correct answer, got %+v", answer)
	}
	answer, _ = catalog.LoadAnswer(context.Background(), wrong)
	if answer == nil || answer.IsCorrect {
		t.Fatalf("expected wrong answer, got %+v", answer)
	}
}
