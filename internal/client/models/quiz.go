package models

import "time"

type Question struct {
	ID            int64    `json:"id,omitempty"`
	Text          string   `json:"text"`
	CorrectAnswer string   `json:"correctAnswer"`
	Distractors   []string `json:"distractors"`
}

type Quiz struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
	MaxQuestions     int        `json:"maxQuestions"`
	Questions        []Question `json:"questions"`
	QuestionsCount   int        `json:"questionsCount"`
	IsOfficial       bool       `json:"isOfficial"`
	IsVisible        bool       `json:"isVisible"`
	IsPlayable       bool       `json:"isPlayable"`
	IsVerified       bool       `json:"isVerified"`
	AuthorID         string     `json:"authorId,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	CompletedToday   bool       `json:"isCompletedToday,omitempty"`
}

// Clone returns a deep copy so cached records never alias caller-held data.
func (q Quiz) Clone() Quiz {
	if q.Questions != nil {
		qs := make([]Question, len(q.Questions))
		for i, question := range q.Questions {
			question.Distractors = append([]string(nil), question.Distractors...)
			qs[i] = question
		}
		q.Questions = qs
	}
	if q.CreatedAt != nil {
		t := *q.CreatedAt
		q.CreatedAt = &t
	}
	return q
}

// QuizDraft is the create/update request body.
type QuizDraft struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
	MaxQuestions     int        `json:"maxQuestions"`
	Questions        []Question `json:"questions"`
	IsVisible        bool       `json:"isVisible"`
	IsPlayable       bool       `json:"isPlayable"`
	IsOfficial       *bool      `json:"isOfficial,omitempty"`
	IsVerified       *bool      `json:"isVerified,omitempty"`
}

// QuizSubmission is the body of a result submission.
type QuizSubmission struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"totalQuestions"`
}

// QuizSubmitResult is the server's answer to a submission. The totals are
// informational; the economy is refreshed through the profile endpoint.
type QuizSubmitResult struct {
	PointsGained   int64  `json:"pointsGained"`
	XPGained       int64  `json:"xpGained"`
	IsLevelUp      bool   `json:"isLevelUp"`
	CurrentLevel   int    `json:"currentLevel"`
	NewTotalPoints *int64 `json:"newTotalPoints,omitempty"`
	NewExperience  *int64 `json:"newExperience,omitempty"`
}
