package stores

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/quizstate/internal/client/client"
	"github.com/dmitrijs2005/quizstate/internal/client/models"
	"github.com/dmitrijs2005/quizstate/internal/client/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(qs []models.Quiz) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Title
	}
	return out
}

func TestQuiz_FetchReplacesCollection(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice"})
	h.srv.AddQuiz(models.Quiz{Title: "Official", IsOfficial: true, IsVisible: true})
	h.srv.AddQuiz(models.Quiz{Title: "Community", IsVisible: true})
	h.srv.AddQuiz(models.Quiz{Title: "Hidden"})

	require.NoError(t, h.quiz.FetchQuizzes(context.Background(), nil))
	require.Equal(t, []string{"Official", "Community"}, titles(h.quiz.Quizzes()))

	require.NoError(t, h.quiz.FetchQuizzes(context.Background(), ptr(false)))
	require.Equal(t, []string{"Community"}, titles(h.quiz.Quizzes()), "no merge with the previous list")

	h.srv.FailNext("GET", "/quizzes", 500, "")
	require.Error(t, h.quiz.FetchQuizzes(context.Background(), nil))
	require.Equal(t, []string{"Community"}, titles(h.quiz.Quizzes()))
}

func TestQuiz_CollectionIsNotAliased(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice"})
	h.srv.AddQuiz(models.Quiz{Title: "Q", IsVisible: true, Questions: []models.Question{{Text: "2+2", CorrectAnswer: "4", Distractors: []string{"3"}}}})
	require.NoError(t, h.quiz.FetchQuizzes(context.Background(), nil))

	got := h.quiz.Quizzes()
	got[0].Title = "changed"
	got[0].Questions[0].Distractors[0] = "5"

	again := h.quiz.Quizzes()
	assert.Equal(t, "Q", again[0].Title)
	assert.Equal(t, "3", again[0].Questions[0].Distractors[0])
}

func TestQuiz_FetchByIDFillsCurrentOnly(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice"})
	id := h.srv.AddQuiz(models.Quiz{Title: "Capitals", IsVisible: true})

	q, err := h.quiz.FetchQuizByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Capitals", q.Title)

	cur, ok := h.quiz.Current()
	require.True(t, ok)
	require.Equal(t, q, cur)
	require.Empty(t, h.quiz.Quizzes())

	_, err = h.quiz.FetchQuizByID(context.Background(), 9999)
	require.EqualError(t, err, "Quiz not found")
	cur, _ = h.quiz.Current()
	require.Equal(t, id, cur.ID)
}

func TestQuiz_DeleteOnlyAfterConfirmation(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice"})
	id := h.srv.AddQuiz(models.Quiz{Title: "Mine", IsVisible: true})
	require.NoError(t, h.quiz.FetchQuizzes(context.Background(), nil))
	_, err := h.quiz.FetchQuizByID(context.Background(), id)
	require.NoError(t, err)

	h.srv.FailNext("DELETE", "/quizzes/"+itoa(id), 403, `{"message":"Not your quiz"}`)
	err = h.quiz.DeleteQuiz(context.Background(), id)
	require.EqualError(t, err, "Not your quiz")
	require.Len(t, h.quiz.Quizzes(), 1)

	require.NoError(t, h.quiz.DeleteQuiz(context.Background(), id))
	require.Empty(t, h.quiz.Quizzes())
	_, ok := h.quiz.Current()
	require.False(t, ok)
	require.False(t, h.srv.HasQuiz(id))
}

func TestQuiz_CreateRefetchesWithLastFilter(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice"})
	h.srv.AddQuiz(models.Quiz{Title: "Official", IsOfficial: true, IsVisible: true})
	require.NoError(t, h.quiz.FetchQuizzes(context.Background(), ptr(false)))
	require.Empty(t, h.quiz.Quizzes())

	created, err := h.quiz.CreateQuiz(context.Background(), models.QuizDraft{Title: "Mine", IsVisible: true})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, []string{"Mine"}, titles(h.quiz.Quizzes()))

	_, err = h.quiz.CreateQuiz(context.Background(), models.QuizDraft{Title: " "})
	require.EqualError(t, err, "Title is required")
	require.Equal(t, []string{"Mine"}, titles(h.quiz.Quizzes()))
}

func TestQuiz_CreateSurvivesRefetchFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice"})
	h.srv.FailNext("GET", "/quizzes", 500, "")

	_, err := h.quiz.CreateQuiz(context.Background(), models.QuizDraft{Title: "Mine", IsVisible: true})
	require.NoError(t, err)
	require.Equal(t, []string{"success: Quiz created"}, messages(h.notes.Drain()))
}

func TestQuiz_UpdateReplacesByID(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice"})
	a := h.srv.AddQuiz(models.Quiz{Title: "A", IsVisible: true})
	h.srv.AddQuiz(models.Quiz{Title: "B", IsVisible: true})
	require.NoError(t, h.quiz.FetchQuizzes(context.Background(), nil))
	_, err := h.quiz.FetchQuizByID(context.Background(), a)
	require.NoError(t, err)

	_, err = h.quiz.UpdateQuiz(context.Background(), a, models.QuizDraft{Title: "A2", IsVisible: true})
	require.NoError(t, err)
	require.Equal(t, []string{"A2", "B"}, titles(h.quiz.Quizzes()))
	cur, _ := h.quiz.Current()
	require.Equal(t, "A2", cur.Title)
}

type blockingSubmitAPI struct {
	client.API
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSubmitAPI) SubmitResult(context.Context, int64, models.QuizSubmission) (*models.QuizSubmitResult, error) {
	close(b.entered)
	<-b.release
	return &models.QuizSubmitResult{PointsGained: 30}, nil
}

func TestQuiz_SubmitDoesNotToggleLoading(t *testing.T) {
	api := &blockingSubmitAPI{entered: make(chan struct{}), release: make(chan struct{})}
	notes := notify.NewChannelNotifier(4)
	q := NewQuiz(Deps{API: api, Notifier: notes})

	done := make(chan error)
	go func() {
		_, err := q.SubmitResult(context.Background(), 1, 3, 5)
		done <- err
	}()
	<-api.entered
	require.False(t, q.Loading())
	close(api.release)
	require.NoError(t, <-done)
	require.Equal(t, []string{"success: Result saved"}, messages(notes.Drain()))
}

func TestQuiz_SubmitLeavesEconomyAlone(t *testing.T) {
	h := newHarness(t, nil)
	uid := h.login(t, models.Identity{DisplayName: "alice", Points: 10})
	id := h.srv.AddQuiz(models.Quiz{Title: "Q", IsVisible: true})

	res, err := h.quiz.SubmitResult(context.Background(), id, 4, 5)
	require.NoError(t, err)
	require.Equal(t, int64(40), res.PointsGained)

	eco, _ := h.user.Economy()
	require.Equal(t, int64(10), eco.Points)

	server, _ := h.srv.User(uid)
	require.Equal(t, int64(50), server.Points)

	_, err = h.user.RefreshProfile(context.Background())
	require.NoError(t, err)
	eco, _ = h.user.Economy()
	require.Equal(t, int64(50), eco.Points)
	h.requireEconomyInStep(t)
}

func TestQuiz_SubmitRejectsImpossibleScore(t *testing.T) {
	h := newHarness(t, nil)
	h.login(t, models.Identity{DisplayName: "alice"})

	_, err := h.quiz.SubmitResult(context.Background(), 1, 6, 5)
	require.EqualError(t, err, "Could not submit the result")
	require.Zero(t, h.srv.Hits("POST", "/quizzes/1/submit"))
}
