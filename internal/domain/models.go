package domain

import "time"

// Answer is the read-only projection of an authored answer the scoring flow needs.
type Answer struct {
	ID        string `json:"id"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is the read view of an authored question, ordered within its quizz.
type Question struct {
	ID       string   `json:"id"`
	QuizzID  string   `json:"quizzId"`
	Text     string   `json:"text"`
	Order    int      `json:"order"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Choices  []Choice `json:"choices"`
}

// Choice is an answer as shown to a player; correctness stays server-side.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Quizz is the read view of an authored quizz. Only published quizzes are playable.
type Quizz struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	IsPublished bool   `json:"isPublished"`
	CreatedBy   string `json:"createdBy"`
}

// LeaderboardEntry is a snapshot-friendly view of one attempt's score.
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

// Leaderboard captures the ordered scoreboard for a quizz.
type Leaderboard struct {
	QuizzID   string             `json:"quizzId"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
