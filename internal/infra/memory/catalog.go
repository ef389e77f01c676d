package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MonsieurBarti/quizz-webapp/internal/domain"
)

// Catalog is an in-memory store of authored quizz content, useful for tests and local runs.
// It serves as AnswerLoader, app.QuestionReader and app.QuizzReader.
type Catalog struct {
	mu        sync.RWMutex
	quizzes   map[string]domain.Quizz
	questions map[string][]domain.Question
	answers   map[string]domain.Answer
}

func NewCatalog() *Catalog {
	return &Catalog{
		quizzes:   make(map[string]domain.Quizz),
		questions: make(map[string][]domain.Question),
		answers:   make(map[string]domain.Answer),
	}
}

// AddQuizz stores or replaces a quizz.
func (c *Catalog) AddQuizz(quizz domain.Quizz) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quizzes[quizz.ID] = quizz
}

// AddQuestion stores a question with its answers. correct lists the IDs of the right choices.
func (c *Catalog) AddQuestion(question domain.Question, correct ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	isCorrect := make(map[string]bool, len(correct))
	for _, id := range correct {
		isCorrect[id] = true
	}
	for _, choice := range question.Choices {
		c.answers[choice.ID] = domain.Answer{ID: choice.ID, IsCorrect: isCorrect[choice.ID]}
	}

	questions := c.questions[question.QuizzID]
	for i := range questions {
		if questions[i].ID == question.ID {
			questions = append(questions[:i], questions[i+1:]...)
			break
		}
	}
	questions = append(questions, question)
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Order < questions[j].Order })
	c.questions[question.QuizzID] = questions
}

// SetAnswer overrides an answer's correctness, as an authoring edit would.
func (c *Catalog) SetAnswer(answer domain.Answer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers[answer.ID] = answer
}

func (c *Catalog) LoadAnswer(_ context.Context, answerID string) (*domain.Answer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	answer, ok := c.answers[answerID]
	if !ok {
		return nil, nil
	}
	return &answer, nil
}

func (c *Catalog) FindPublishedByID(_ context.Context, quizzID string) (*domain.Quizz, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	quizz, ok := c.quizzes[quizzID]
	if !ok || !quizz.IsPublished {
		return nil, nil
	}
	return &quizz, nil
}

func (c *Catalog) FindNext(_ context.Context, quizzID, afterQuestionID string) (*domain.Question, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	questions := c.questions[quizzID]
	next := 0
	if afterQuestionID != "" {
		next = -1
		for i := range questions {
			if questions[i].ID == afterQuestionID {
				next = i + 1
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, afterQuestionID)
		}
	}
	if next >= len(questions) {
		return nil, nil
	}
	question := questions[next]
	question.Choices = append([]domain.Choice(nil), question.Choices...)
	return &question, nil
}
