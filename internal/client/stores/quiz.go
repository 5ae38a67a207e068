package stores

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/quizstate/internal/client/i18n"
	"github.com/dmitrijs2005/quizstate/internal/client/metrics"
	"github.com/dmitrijs2005/quizstate/internal/client/models"
)

// Quiz owns the quiz collection and the single-slot current quiz. The two
// are independent: loading one quiz never touches the collection.
type Quiz struct {
	base

	mu         sync.RWMutex
	quizzes    []models.Quiz
	current    *models.Quiz
	lastFilter *bool
}

func NewQuiz(d Deps) *Quiz {
	q := &Quiz{}
	q.init("quiz", d)
	return q
}

func cloneQuizzes(in []models.Quiz) []models.Quiz {
	if in == nil {
		return nil
	}
	out := make([]models.Quiz, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}

func (s *Quiz) Quizzes() []models.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneQuizzes(s.quizzes)
}

func (s *Quiz) Current() (models.Quiz, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Quiz{}, false
	}
	return s.current.Clone(), true
}

// FetchQuizzes replaces the collection with the server's list. official
// filters official (true) or community (false) quizzes; nil lists all.
func (s *Quiz) FetchQuizzes(ctx context.Context, official *bool) error {
	defer s.begin()()

	list, err := s.api.ListQuizzes(ctx, official)
	if err != nil {
		return s.fail(ctx, "fetch_quizzes", i18n.ErrQuizzes, err)
	}

	s.mu.Lock()
	s.quizzes = cloneQuizzes(list)
	if official != nil {
		f := *official
		s.lastFilter = &f
	} else {
		s.lastFilter = nil
	}
	s.mu.Unlock()
	return nil
}

// FetchQuizByID loads one quiz into the current slot and returns it.
func (s *Quiz) FetchQuizByID(ctx context.Context, id int64) (models.Quiz, error) {
	defer s.begin()()

	q, err := s.api.GetQuiz(ctx, id)
	if err != nil {
		return models.Quiz{}, s.fail(ctx, "fetch_quiz", i18n.ErrQuiz, err)
	}
	cur := q.Clone()

	s.mu.Lock()
	s.current = &cur
	s.mu.Unlock()
	return cur.Clone(), nil
}

// CreateQuiz creates a quiz and then refetches the collection with the last
// used filter. The refetch is best effort.
func (s *Quiz) CreateQuiz(ctx context.Context, draft models.QuizDraft) (models.Quiz, error) {
	defer s.begin()()

	created, err := s.api.CreateQuiz(ctx, draft)
	if err != nil {
		s.record("create_quiz", metrics.OutcomeRolledBack)
		return models.Quiz{}, s.fail(ctx, "create_quiz", i18n.ErrCreateQuiz, err)
	}
	s.record("create_quiz", metrics.OutcomeCommitted)
	s.success(i18n.MsgQuizCreated)

	s.refetch(ctx)
	return created.Clone(), nil
}

// UpdateQuiz saves a quiz and replaces it by id in the collection and the
// current slot. An answer without an id triggers a refetch instead.
func (s *Quiz) UpdateQuiz(ctx context.Context, id int64, draft models.QuizDraft) (models.Quiz, error) {
	defer s.begin()()

	updated, err := s.api.UpdateQuiz(ctx, id, draft)
	if err != nil {
		s.record("update_quiz", metrics.OutcomeRolledBack)
		return models.Quiz{}, s.fail(ctx, "update_quiz", i18n.ErrUpdateQuiz, err)
	}
	s.record("update_quiz", metrics.OutcomeCommitted)
	s.success(i18n.MsgQuizUpdated)

	if updated.ID == 0 {
		s.refetch(ctx)
		return updated.Clone(), nil
	}

	s.mu.Lock()
	if i := slices.IndexFunc(s.quizzes, func(q models.Quiz) bool { return q.ID == id }); i >= 0 {
		s.quizzes[i] = updated.Clone()
	}
	if s.current != nil && s.current.ID == id {
		cur := updated.Clone()
		s.current = &cur
	}
	s.mu.Unlock()
	return updated.Clone(), nil
}

// DeleteQuiz removes a quiz locally only once the server confirmed it.
func (s *Quiz) DeleteQuiz(ctx context.Context, id int64) error {
	defer s.begin()()

	if err := s.api.DeleteQuiz(ctx, id); err != nil {
		s.record("delete_quiz", metrics.OutcomeRolledBack)
		return s.fail(ctx, "delete_quiz", i18n.ErrDeleteQuiz, err)
	}

	s.mu.Lock()
	s.quizzes = slices.DeleteFunc(s.quizzes, func(q models.Quiz) bool { return q.ID == id })
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()

	s.record("delete_quiz", metrics.OutcomeCommitted)
	s.success(i18n.MsgQuizDeleted)
	return nil
}

// SubmitResult records a finished play. It leaves the loading flag and the
// economy alone; callers refresh the profile to see new totals.
func (s *Quiz) SubmitResult(ctx context.Context, quizID int64, score, totalQuestions int) (models.QuizSubmitResult, error) {
	if score < 0 || totalQuestions < 0 || score > totalQuestions {
		return models.QuizSubmitResult{}, s.fail(ctx, "submit", i18n.ErrSubmit,
			fmt.Errorf("invalid score %d of %d", score, totalQuestions))
	}

	res, err := s.api.SubmitResult(ctx, quizID, models.QuizSubmission{Score: score, TotalQuestions: totalQuestions})
	if err != nil {
		return models.QuizSubmitResult{}, s.fail(ctx, "submit", i18n.ErrSubmit, err)
	}
	s.log.Info(ctx, "result submitted", "quiz_id", quizID, "score", score, "points_gained", res.PointsGained)
	s.success(i18n.MsgSubmitted)
	return *res, nil
}

func (s *Quiz) refetch(ctx context.Context) {
	s.mu.RLock()
	filter := s.lastFilter
	s.mu.RUnlock()

	list, err := s.api.ListQuizzes(ctx, filter)
	if err != nil {
		s.log.Warn(ctx, "quiz list refetch failed", "error", err)
		return
	}
	s.mu.Lock()
	s.quizzes = cloneQuizzes(list)
	s.mu.Unlock()
}
