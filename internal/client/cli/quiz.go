package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/quizstate/internal/client/models"
)

// shuffleFn orders the answer options of a question. Tests replace it to get
// a stable order.
var shuffleFn = rand.Shuffle

// now is a test seam for the quiz timer.
var now = time.Now

var errBadFilter = errors.New("filter must be official or community")

func parseFilter(s string) (*bool, error) {
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "official":
		v := true
		return &v, nil
	case "community":
		v := false
		return &v, nil
	}
	return nil, errBadFilter
}

// Quizzes lists quizzes, optionally only official or community ones.
func (a *App) Quizzes(ctx context.Context, filter string) error {
	official, err := parseFilter(filter)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: quizzes [official|community]")
		return err
	}
	if err := a.quiz.FetchQuizzes(ctx, official); err != nil {
		return err
	}

	list := a.quiz.Quizzes()
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No quizzes")
		return nil
	}
	for _, q := range list {
		var tags []string
		if q.IsOfficial {
			tags = append(tags, "official")
		}
		if q.CompletedToday {
			tags = append(tags, "done today")
		}
		line := fmt.Sprintf("#%d %s (%d questions)", q.ID, q.Title, q.QuestionsCount)
		if len(tags) > 0 {
			line += " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// ShowQuiz prints one quiz without its answers.
func (a *App) ShowQuiz(ctx context.Context, id int64) error {
	q, err := a.quiz.FetchQuizByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "#%d %s\n", q.ID, q.Title)
	if q.Description != "" {
		fmt.Fprintln(a.out, q.Description)
	}
	fmt.Fprintf(a.out, "questions=%d", len(q.Questions))
	if q.TimeLimitSeconds > 0 {
		fmt.Fprintf(a.out, " time limit=%ds", q.TimeLimitSeconds)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Play runs a quiz interactively, submits the score and then refreshes the
// profile, since a submission does not touch the local economy by itself.
func (a *App) Play(ctx context.Context, id int64) error {
	q, err := a.quiz.FetchQuizByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case !q.IsPlayable:
		fmt.Fprintln(a.out, "This quiz cannot be played right now")
		return nil
	case q.CompletedToday:
		fmt.Fprintln(a.out, "You have already completed this quiz today")
		return nil
	}

	questions := q.Questions
	if q.MaxQuestions > 0 && q.MaxQuestions < len(questions) {
		questions = questions[:q.MaxQuestions]
	}
	if len(questions) == 0 {
		fmt.Fprintln(a.out, "This quiz has no questions")
		return nil
	}

	var deadline time.Time
	if q.TimeLimitSeconds > 0 {
		deadline = now().Add(time.Duration(q.TimeLimitSeconds) * time.Second)
	}

	score := 0
	for i, question := range questions {
		if !deadline.IsZero() && now().After(deadline) {
			fmt.Fprintln(a.out, "Time is up!")
			break
		}
		ok, err := a.ask(i+1, len(questions), question)
		if err != nil {
			return err
		}
		if ok {
			score++
		}
	}

	res, err := a.quiz.SubmitResult(ctx, q.ID, score, len(questions))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Score %d/%d: +%d points, +%d xp\n", score, len(questions), res.PointsGained, res.XPGained)
	if res.IsLevelUp {
		fmt.Fprintf(a.out, "Level up! You are now level %d\n", res.CurrentLevel)
	}

	if _, err := a.user.RefreshProfile(ctx); err != nil {
		a.log.Warn(ctx, "profile refresh after play failed", "quiz_id", q.ID, "error", err)
	}
	return nil
}

func (a *App) ask(n, total int, question models.Question) (bool, error) {
	options := append([]string{question.CorrectAnswer}, question.Distractors...)
	shuffleFn(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	var b strings.Builder
	fmt.Fprintf(&b, "Q%d/%d: %s", n, total, question.Text)
	for i, o := range options {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, o)
	}
	answer, err := getSimpleText(a.reader, b.String(), a.out)
	if err != nil {
		return false, err
	}

	choice, err := strconv.Atoi(answer)
	if err != nil || choice < 1 || choice > len(options) {
		fmt.Fprintf(a.out, "Wrong, the answer was %s\n", question.CorrectAnswer)
		return false, nil
	}
	if options[choice-1] != question.CorrectAnswer {
		fmt.Fprintf(a.out, "Wrong, the answer was %s\n", question.CorrectAnswer)
		return false, nil
	}
	fmt.Fprintln(a.out, "Correct!")
	return true, nil
}

// NewQuiz prompts for a title, a description and questions, then creates
// the quiz on the server.
func (a *App) NewQuiz(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	if title == "" {
		fmt.Fprintln(a.out, "A title is required")
		return nil
	}
	description, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	limit, err := getSimpleText(a.reader, "Time limit in seconds (empty for none)", a.out)
	if err != nil {
		return err
	}
	seconds := 0
	if limit != "" {
		if seconds, err = strconv.Atoi(limit); err != nil || seconds < 0 {
			fmt.Fprintln(a.out, "Invalid time limit:", limit)
			return nil
		}
	}

	var questions []models.Question
	for {
		text, err := getSimpleText(a.reader, fmt.Sprintf("Question %d (empty to finish)", len(questions)+1), a.out)
		if err != nil {
			return err
		}
		if text == "" {
			break
		}
		correct, err := getSimpleText(a.reader, "Correct answer", a.out)
		if err != nil {
			return err
		}
		wrong, err := getSimpleText(a.reader, "Wrong answers, comma separated", a.out)
		if err != nil {
			return err
		}
		questions = append(questions, models.Question{
			Text:          text,
			CorrectAnswer: correct,
			Distractors:   splitList(wrong),
		})
	}
	if len(questions) == 0 {
		fmt.Fprintln(a.out, "A quiz needs at least one question")
		return nil
	}

	q, err := a.quiz.CreateQuiz(ctx, models.QuizDraft{
		Title:            title,
		Description:      description,
		TimeLimitSeconds: seconds,
		Questions:        questions,
		IsVisible:        true,
		IsPlayable:       true,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created quiz #%d\n", q.ID)
	return nil
}

// DeleteQuiz removes a quiz the user authored.
func (a *App) DeleteQuiz(ctx context.Context, id int64) error {
	return a.quiz.DeleteQuiz(ctx, id)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
