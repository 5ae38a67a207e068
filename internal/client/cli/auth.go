package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/quizstate/internal/cryptox"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a display name, an email and a password and creates
// the account. The password never leaves this function in clear: only its
// credential hash is sent, and the byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	id, err := a.session.Register(ctx, name, email, cryptox.CredentialHash(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", id.DisplayName)
	return nil
}

// Login prompts for an email or display name and a password. On failure the
// session is left as it was and the reason is queued as a notification.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter email or display name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	id, err := a.session.Login(ctx, identifier, cryptox.CredentialHash(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Hello, %s! You have %d points.\n", id.DisplayName, id.Points)
	return nil
}

// Logout ends the session. It is safe to call when nobody is logged in.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	return nil
}
