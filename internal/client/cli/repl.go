package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Search(ctx context.Context, text string) error
	Category(ctx context.Context, name string) error
	Categories(ctx context.Context) error
	View(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Reveal(ctx context.Context, id string) error
	Copy(ctx context.Context, id string) error
	CopyUsername(ctx context.Context, id string) error
	Generate(ctx context.Context) error
	Share(ctx context.Context, id string) error
	Shares(ctx context.Context) error
	Access(ctx context.Context) error
	Revoke(ctx context.Context, id string) error
	Settings(ctx context.Context) error
	Reload(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the dashboard CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands
//
//	help               — show available commands
//	list | l           — list entries under the current filter
//	search <text>      — set the free-text filter (empty clears it)
//	category <name>    — set the category filter ("All" clears it)
//	categories         — list categories
//	view <id>          — show one entry, secret masked
//	add                — add an entry (interactive prompts)
//	edit <id>          — edit an entry (interactive prompts)
//	del <id>           — delete an entry (asks for confirmation)
//	reveal <id>        — print the entry's plaintext secret
//	copy <id>          — copy the secret to the clipboard (timed clear)
//	copyuser <id>      — copy the username (no timed clear)
//	gen                — generate a password
//	share <id>         — create a share link (interactive prompts)
//	shares             — list active shares
//	access             — open a shared link (interactive prompts)
//	revoke <id>        — revoke a share (asks for confirmation)
//	settings           — show and change preferences
//	reload             — refresh entries and shares from the server
//	exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers post
// their own feedback. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pd %s> ", statusFn()))
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

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		switch cmd {
		case "help":
			printlnFn("Commands: (l)ist, search, category, categories, view, add, edit, del,")
			printlnFn("          reveal, copy, copyuser, gen, share, shares, access, revoke,")
			printlnFn("          settings, reload, exit")

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "category":
			if arg == "" {
				printlnFn("Usage: category <name>")
				continue
			}
			_ = a.Category(ctx, strings.Join(args, " "))

		case "categories":
			_ = a.Categories(ctx)

		case "view":
			if arg == "" {
				printlnFn("Usage: view <id>")
				continue
			}
			_ = a.View(ctx, arg)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			if arg == "" {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, arg)

		case "del":
			if arg == "" {
				printlnFn("Usage: del <id>")
				continue
			}
			_ = a.Delete(ctx, arg)

		case "reveal":
			if arg == "" {
				printlnFn("Usage: reveal <id>")
				continue
			}
			_ = a.Reveal(ctx, arg)

		case "copy":
			if arg == "" {
				printlnFn("Usage: copy <id>")
				continue
			}
			_ = a.Copy(ctx, arg)

		case "copyuser":
			if arg == "" {
				printlnFn("Usage: copyuser <id>")
				continue
			}
			_ = a.CopyUsername(ctx, arg)

		case "gen":
			_ = a.Generate(ctx)

		case "share":
			if arg == "" {
				printlnFn("Usage: share <id>")
				continue
			}
			_ = a.Share(ctx, arg)

		case "shares":
			_ = a.Shares(ctx)

		case "access":
			_ = a.Access(ctx)

		case "revoke":
			if arg == "" {
				printlnFn("Usage: revoke <id>")
				continue
			}
			_ = a.Revoke(ctx, arg)

		case "settings":
			_ = a.Settings(ctx)

		case "reload":
			_ = a.Reload(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
