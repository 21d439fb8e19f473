package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Register prompts for name, email and password, creates the account and
// keeps the returned token for the session.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
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

	s, err := a.api.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	a.session = s
	fmt.Fprintf(a.out, "Welcome, %s!\n", s.Name)
	return nil
}

// Login prompts for credentials and keeps the returned token for the
// session. A failed login leaves any previous session untouched.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.session = s
	fmt.Fprintf(a.out, "Logged in as %s\n", s.Email)
	return nil
}

// Me prints the account the current token belongs to.
func (a *App) Me(ctx context.Context) error {
	token, err := a.token()
	if err != nil {
		return err
	}
	u, err := a.api.Me(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\nid: %s\nmember since: %s\n", u.Name, u.Email, u.ID, u.CreatedAt.Format("2006-01-02"))
	return nil
}

// Logout forgets the token.
func (a *App) Logout(ctx context.Context) error {
	if a.session == nil {
		return ErrNotLoggedIn
	}
	a.session = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
