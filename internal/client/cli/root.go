package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	id, ok := a.session.Identity()
	if !ok {
		return "(guest)"
	}
	s := fmt.Sprintf("%s %dp L%d", id.DisplayName, id.Points, id.Level)
	if id.IsAdmin() {
		s += " admin"
	}
	return fmt.Sprintf("(%s)", s)
}

// Root prints the banner and runs the REPL on stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the quiz CLI (type 'help' for commands)")
	if id, ok := a.session.Identity(); ok {
		fmt.Fprintf(a.out, "Session restored for %s\n", id.DisplayName)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
