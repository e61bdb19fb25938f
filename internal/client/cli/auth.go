package cli

import (
	"context"

	"github.com/dmitrijs2005/tiernerd/internal/client/client"
	"github.com/dmitrijs2005/tiernerd/internal/client/services"
	"github.com/dmitrijs2005/tiernerd/internal/client/session"
	"github.com/dmitrijs2005/tiernerd/internal/client/validation"
	"github.com/dmitrijs2005/tiernerd/internal/common"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

const (
	msgSignInFirst     = "Please sign in first"
	msgAlreadySignedIn = "Already signed in, use logout first"
)

// promptPassword reads a password and returns it as a string. The raw
// buffer is wiped.
func (a *App) promptPassword(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Register prompts for email, optional username and a password typed twice,
// then creates the account and signs in to it.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		return a.fail(msgAlreadySignedIn)
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := a.promptPassword("Enter password")
	if err != nil {
		return err
	}
	confirm, err := a.promptPassword("Confirm password")
	if err != nil {
		return err
	}

	form := validation.RegisterForm{Email: email, Password: password, Confirm: confirm, Username: username}
	if err := validation.Register(form); err != nil {
		return a.fail(err.Error())
	}

	if !a.session.Register(ctx, email, password, username) {
		msg := a.sessionError()
		if pending := a.session.PendingEmail(); pending != "" {
			a.printf("Account %s was created.\n", pending)
		}
		return a.fail(msg)
	}

	a.printf("Welcome, %s!\n", a.session.CurrentUser().DisplayName)
	return nil
}

// Login prompts for credentials and signs in. An email left blank falls back
// to the account created by a register call that could not sign in.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		return a.fail(msgAlreadySignedIn)
	}

	prompt := "Enter email"
	pending := a.session.PendingEmail()
	if pending != "" {
		prompt += " [" + pending + "]"
	}
	email, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" {
		email = pending
	}

	password, err := a.promptPassword("Enter password")
	if err != nil {
		return err
	}

	if !a.session.Login(ctx, email, password) {
		return a.fail(a.sessionError())
	}

	a.printf("Signed in as %s\n", a.session.CurrentUser().Email)
	return nil
}

// Logout forgets the session here and in the local store.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		return a.fail(session.MsgOperationInProgress)
	}
	a.println("Signed out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.CurrentUser()
	if u == nil {
		a.println("Not signed in")
		return nil
	}
	a.printf("%s <%s>\n", u.DisplayName, u.Email)
	return nil
}

// sessionError is the reason the last session call failed. A call turned
// away by the in-flight guard leaves no reason behind.
func (a *App) sessionError() string {
	if msg := a.session.LastError(); msg != "" {
		return msg
	}
	return session.MsgOperationInProgress
}

// serviceError prints why a list or item call failed. When the server no
// longer accepts token, the session is ended and the user told to sign in.
func (a *App) serviceError(ctx context.Context, err error, f services.Feature, token string) error {
	msg := services.ErrorMessage(err, f)
	if !client.IsUnauthorized(err) {
		return a.fail(msg)
	}
	if ierr := a.session.Invalidate(ctx, token); ierr != nil {
		a.logger.Warn(ctx, "ending rejected session", "error", ierr)
		return a.fail(msg)
	}
	err = a.fail(msg)
	a.println(session.MsgSessionExpired)
	return err
}

// requireToken returns the bearer token, or prints msgSignInFirst.
func (a *App) requireToken() (string, error) {
	if !a.isLoggedIn() {
		return "", a.fail(msgSignInFirst)
	}
	return a.session.Token(), nil
}
