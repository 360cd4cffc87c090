package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.userName)
}

// Root restores any persisted session and runs the REPL on stdin until the
// user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to agentdesk CLI (type 'help' for commands)")
	a.restoreSession(ctx)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
