package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	FlushPending(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Lists(ctx context.Context) error
	NewList(ctx context.Context) error
	DeleteList(ctx context.Context) error
	Items(ctx context.Context) error
	AddItem(ctx context.Context) error
	EditItem(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: register, login, whoami, exit"
	helpSignedIn  = "Available commands: (l)ists, newlist, deletelist, items, additem, edititem, whoami, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF, "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account and sign in
//	  - login          sign in
//	  - whoami         show the signed-in user
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - lists | l      show your lists
//	  - newlist        create a list
//	  - deletelist     delete a list
//	  - items          show the items of a list
//	  - additem        add an item to a list
//	  - edititem       rename or describe an item
//	  - logout         sign out
//
// A credential write that failed earlier is retried before each command.
// Errors returned by handlers are ignored here; handlers print their own.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tn %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])

		_ = a.FlushPending(ctx)

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "lists":
			_ = a.Lists(ctx)

		case "newlist":
			_ = a.NewList(ctx)

		case "deletelist":
			_ = a.DeleteList(ctx)

		case "items":
			_ = a.Items(ctx)

		case "additem":
			_ = a.AddItem(ctx)

		case "edititem":
			_ = a.EditItem(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
