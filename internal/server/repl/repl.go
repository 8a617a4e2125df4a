// Package repl is the operator console that runs alongside the HTTP server.
// It drives the same services as the API but without the token gate: whoever
// holds the process terminal is root.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chanvault/chanvault/internal/server/models"
	"github.com/chanvault/chanvault/internal/server/services"
)

// admin is the minimal service surface the console needs. The real
// UserService satisfies it; tests can provide a stub.
type admin interface {
	Register(ctx context.Context, level models.AccessLevel) (*models.User, string, error)
	List(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id string) error
	Uploads(ctx context.Context, userID string) ([]*models.Content, error)
}

var _ admin = (*services.UserService)(nil)

type command struct {
	usage string
	help  string
}

var commands = map[string]command{
	"help":        {"help [command]", "Show available commands, or details for one command."},
	"register":    {"register <user|root>", "Create an account and print its id and bearer token."},
	"users":       {"users", "List all accounts."},
	"delete-user": {"delete-user <id>", "Delete an account. Its indexed uploads go with it."},
	"uploads":     {"uploads <userId>", "List the content index rows owned by a user."},
	"exit":        {"exit", "Leave the console. The HTTP server keeps running."},
}

// Console reads operator commands line by line and dispatches to the admin
// surface. Output goes to out so tests can capture it.
type Console struct {
	svc admin
	out io.Writer
}

func NewConsole(svc admin, out io.Writer) *Console {
	return &Console{svc: svc, out: out}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Run loops until scanner EOF, "exit", or ctx cancellation observed between
// commands.
func (c *Console) Run(ctx context.Context, scanner *bufio.Scanner) {
	c.printf("Admin console ready (type 'help' for commands)")

	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			c.help(args)
		case "register":
			c.register(ctx, args)
		case "users":
			c.listUsers(ctx)
		case "delete-user":
			c.deleteUser(ctx, args)
		case "uploads":
			c.uploads(ctx, args)
		case "exit", "quit":
			c.printf("Bye!")
			return
		default:
			c.printf("Unknown command: %s (type 'help')", cmd)
		}
	}
}

func (c *Console) help(args []string) {
	if len(args) > 0 {
		cmd, ok := commands[args[0]]
		if !ok {
			c.printf("No such command: %s", args[0])
			return
		}
		c.printf("%s\n  %s", cmd.usage, cmd.help)
		return
	}

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	c.printf("Available commands: %s", strings.Join(names, ", "))
}

func (c *Console) register(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.printf("Usage: %s", commands["register"].usage)
		return
	}

	level := models.AccessLevel(args[0])
	if !models.ValidAccessLevel(level) {
		c.printf("Invalid access level: %s", args[0])
		return
	}

	user, token, err := c.svc.Register(ctx, level)
	if err != nil {
		c.printf("Error: %s", err.Error())
		return
	}
	c.printf("Created %s user %s", user.AccessLevel, user.ID)
	c.printf("Token: %s", token)
}

func (c *Console) listUsers(ctx context.Context) {
	users, err := c.svc.List(ctx)
	if err != nil {
		c.printf("Error: %s", err.Error())
		return
	}
	if len(users) == 0 {
		c.printf("No users.")
		return
	}
	for _, u := range users {
		c.printf("%s  %s  %s", u.ID, u.AccessLevel, u.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func (c *Console) deleteUser(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.printf("Usage: %s", commands["delete-user"].usage)
		return
	}

	if err := c.svc.Delete(ctx, args[0]); err != nil {
		c.printf("Error: %s", err.Error())
		return
	}
	c.printf("Deleted user %s", args[0])
}

func (c *Console) uploads(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.printf("Usage: %s", commands["uploads"].usage)
		return
	}

	items, err := c.svc.Uploads(ctx, args[0])
	if err != nil {
		c.printf("Error: %s", err.Error())
		return
	}
	if len(items) == 0 {
		c.printf("No uploads.")
		return
	}
	for _, item := range items {
		c.printf("%s  %s  %s", item.ID, item.Kind, item.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}
