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
	WhoAmI(ctx context.Context) error
	ListProjects(ctx context.Context) error
	ShowProject(ctx context.Context, id string) error
	NewProject(ctx context.Context) error
	ListResources(ctx context.Context) error
	ShowResource(ctx context.Context, id string) error
	NewResource(ctx context.Context) error
	Export(ctx context.Context, path string) error
}

// runREPL starts a simple read–eval–print loop for the portal shell.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help               — show available commands
//	  - register           — create an account
//	  - login              — authenticate
//	  - projects | resources, project <id> | resource <id>
//	  - newresource        — share a resource (unless login is required by policy)
//	  - exit | quit        — leave the program
//
//	Logged in, additionally:
//	  - whoami             — show the active session
//	  - newproject         — create a project
//	  - export <file>      — write a JSON snapshot of all collections
//	  - logout             — log out
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("portal %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, (p)rojects, project <id>, newproject, (r)esources, resource <id>, newresource, export <file>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, (p)rojects, project <id>, (r)esources, resource <id>, newresource, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "p", "projects":
			_ = a.ListProjects(ctx)

		case "project":
			if len(args) == 0 {
				printlnFn("Usage: project <id>")
				continue
			}
			_ = a.ShowProject(ctx, args[0])

		case "newproject":
			_ = a.NewProject(ctx)

		case "r", "resources":
			_ = a.ListResources(ctx)

		case "resource":
			if len(args) == 0 {
				printlnFn("Usage: resource <id>")
				continue
			}
			_ = a.ShowResource(ctx, args[0])

		case "newresource":
			_ = a.NewResource(ctx)

		case "export":
			if len(args) == 0 {
				printlnFn("Usage: export <file>")
				continue
			}
			_ = a.Export(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
