package cli

import (
	"context"
	"fmt"
)

// Pending lists the quizzes awaiting moderation.
func (a *App) Pending(ctx context.Context) error {
	if err := a.admin.FetchPendingQuizzes(ctx); err != nil {
		return err
	}
	pending := a.admin.Pending()
	if len(pending) == 0 {
		fmt.Fprintln(a.out, "Nothing to moderate")
		return nil
	}
	fmt.Fprintf(a.out, "%d quizzes awaiting verification\n", a.admin.PendingCount())
	for _, q := range pending {
		fmt.Fprintf(a.out, "#%d %s by %s (%d questions)\n", q.ID, q.Title, q.AuthorID, q.QuestionsCount)
	}
	return nil
}

func (a *App) Verify(ctx context.Context, id int64) error {
	return a.admin.VerifyQuiz(ctx, id)
}

func (a *App) Reject(ctx context.Context, id int64) error {
	return a.admin.RejectQuiz(ctx, id)
}
