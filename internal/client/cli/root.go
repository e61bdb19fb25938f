package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/tiernerd/internal/client/session"
)

// getStatus renders the prompt prefix, e.g. "(alice mock online)".
func (a *App) getStatus() string {
	var parts []string
	if u := a.session.CurrentUser(); u != nil {
		parts = append(parts, u.DisplayName)
	}
	if a.session.MockMode() {
		parts = append(parts, "mock")
	}
	if mode := a.Mode(); mode != "" {
		parts = append(parts, string(mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.println("Welcome to tiernerd (type 'help' for commands)")

	if a.session.Restore(ctx) == session.StateAuthenticated {
		a.printf("Signed in as %s\n", a.session.CurrentUser().Email)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
