package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	flushNotifications()

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Rename(ctx context.Context) error
	Stats(ctx context.Context) error

	Quizzes(ctx context.Context, filter string) error
	ShowQuiz(ctx context.Context, id int64) error
	Play(ctx context.Context, id int64) error
	NewQuiz(ctx context.Context) error
	DeleteQuiz(ctx context.Context, id int64) error

	Shop(ctx context.Context) error
	Inventory(ctx context.Context) error
	Buy(ctx context.Context, id int64) error

	Pending(ctx context.Context) error
	Verify(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error

	PrintMetrics(ctx context.Context) error
}

const (
	guestHelp = "Available commands: register, login, stats, metrics, exit"
	userHelp  = "Available commands: whoami, profile, rename, stats, quizzes [official|community], " +
		"quiz <id>, play <id>, newquiz, delquiz <id>, shop, inventory, buy <id>, metrics, logout, exit"
	adminHelp = "Admin commands: pending, verify <id>, reject <id>"
)

// runREPL starts a simple read–eval–print loop for the quiz CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Commands taking an id print a
// usage line when the id is missing or not a number. Admin commands are
// refused for non-admin sessions. The loop exits on scanner EOF or when the
// user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here: the stores already
// queued a notification for them, which is printed after every command.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("quiz %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		withID := func(fn func(context.Context, int64) error) {
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				return
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				printlnFn("Invalid id:", args[0])
				return
			}
			_ = fn(ctx, id)
		}
		adminOnly := func(fn func()) {
			if !a.isAdmin() {
				printlnFn("Admin only")
				return
			}
			fn()
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
				if a.isAdmin() {
					printlnFn(adminHelp)
				}
			} else {
				printlnFn(guestHelp)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "profile":
			_ = a.Profile(ctx)
		case "rename":
			_ = a.Rename(ctx)
		case "stats":
			_ = a.Stats(ctx)

		case "quizzes":
			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}
			_ = a.Quizzes(ctx, filter)
		case "quiz":
			withID(a.ShowQuiz)
		case "play":
			withID(a.Play)
		case "newquiz":
			_ = a.NewQuiz(ctx)
		case "delquiz":
			withID(a.DeleteQuiz)

		case "shop":
			_ = a.Shop(ctx)
		case "inventory":
			_ = a.Inventory(ctx)
		case "buy":
			withID(a.Buy)

		case "pending":
			adminOnly(func() { _ = a.Pending(ctx) })
		case "verify":
			adminOnly(func() { withID(a.Verify) })
		case "reject":
			adminOnly(func() { withID(a.Reject) })

		case "metrics":
			_ = a.PrintMetrics(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		a.flushNotifications()
	}
}
