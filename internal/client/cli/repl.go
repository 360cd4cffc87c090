package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Get(ctx context.Context, path string) error
	Stats(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the agentdesk CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF, on context cancellation
// or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help          : show available commands
//	  - register      : create an account and log in
//	  - login         : authenticate
//	  - stats         : request and refresh counters
//	  - exit | quit   : leave the program
//
//	Logged in:
//	  - help          : show available commands
//	  - whoami        : show the current user
//	  - get <path>    : authorized GET, printed as JSON
//	  - refresh       : renew the session now
//	  - stats         : request and refresh counters
//	  - logout        : log out
//	  - exit | quit   : leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("ad%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, get <path>, refresh, stats, logout, exit")
			} else {
				printlnFn("Available commands: register, login, stats, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "get":
			if len(args) == 0 {
				printlnFn("Usage: get <path>")
				continue
			}
			_ = a.Get(ctx, args[0])

		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
