package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	AddNote(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Edit(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Sync(ctx context.Context, strategy string) error
	Conflicts(ctx context.Context) error
	Resolve(ctx context.Context, id string) error
	Status(ctx context.Context) error
	Cleanup(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context) error
}

// Root runs the interactive shell on stdin until EOF or "exit".
func (a *App) Root(ctx context.Context) {
	printlnFn("notesync (type 'help' for commands)")
	runREPL(ctx, a, bufio.NewScanner(os.Stdin))
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	add                    add a note
//	list                   list active notes
//	show <id>              print one note
//	edit <id>              edit title and content
//	rm <id>                soft-delete a note
//	sync [strategy]        run a sync pass (local|remote|manual, default last-write-wins)
//	conflicts              list queued conflicts
//	resolve <id>           resolve a queued conflict
//	status                 show sync metadata
//	cleanup                purge expired deleted notes
//	export                 write an encrypted backup file
//	import                 load an encrypted backup file
//	exit | quit            leave the program
//
// Errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn("notes> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
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
			printlnFn("Available commands: add, (l)ist, show, edit, rm, sync [local|remote|manual], conflicts, resolve, status, cleanup, export, import, exit")

		case "add":
			_ = a.AddNote(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx, arg)

		case "edit":
			_ = a.Edit(ctx, arg)

		case "rm":
			_ = a.Remove(ctx, arg)

		case "sync":
			_ = a.Sync(ctx, arg)

		case "conflicts":
			_ = a.Conflicts(ctx)

		case "resolve":
			_ = a.Resolve(ctx, arg)

		case "status":
			_ = a.Status(ctx)

		case "cleanup":
			_ = a.Cleanup(ctx)

		case "export":
			_ = a.Export(ctx)

		case "import":
			_ = a.Import(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
