package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/quizstate/internal/client/models"
)

func (a *App) printIdentity(id models.Identity) {
	fmt.Fprintf(a.out, "%s <%s> role=%s\n", id.DisplayName, id.Email, id.Role)
	fmt.Fprintf(a.out, "points=%d experience=%d level=%d\n", id.Points, id.Experience, id.Level)
}

// WhoAmI prints the session identity without contacting the server.
func (a *App) WhoAmI(ctx context.Context) error {
	id, ok := a.session.Identity()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	a.printIdentity(id)
	return nil
}

// Profile refreshes the profile from the server and prints it.
func (a *App) Profile(ctx context.Context) error {
	id, err := a.user.RefreshProfile(ctx)
	if err != nil {
		return err
	}
	a.printIdentity(id)
	if id.AvatarURL != "" {
		fmt.Fprintf(a.out, "avatar=%s\n", id.AvatarURL)
	}
	if !id.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "member since %s\n", id.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

// Rename changes the display name.
func (a *App) Rename(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter new display name", a.out)
	if err != nil {
		return err
	}
	if name == "" {
		fmt.Fprintln(a.out, "Nothing changed")
		return nil
	}
	id, err := a.user.UpdateProfile(ctx, models.ProfileUpdate{DisplayName: &name})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Display name is now %s\n", id.DisplayName)
	return nil
}

// Stats prints the platform counters and, for a logged-in user, their own
// play statistics.
func (a *App) Stats(ctx context.Context) error {
	ps, err := a.stats.FetchStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Platform: %d quizzes, %d questions, %d users\n",
		ps.TotalQuizzes, ps.TotalQuestions, ps.TotalUsers)

	if !a.isLoggedIn() {
		return nil
	}
	us, err := a.user.FetchStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "You: %d quizzes played, %d/%d correct, best streak %d\n",
		us.QuizzesPlayed, us.CorrectAnswers, us.TotalQuestionsAnswered, us.BestStreak)
	return nil
}
