package commands

import (
	"LostFound/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "login <email> <password>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// Группы команд в порядке вывода справки.
const (
	GroupAccount = "Account"
	GroupItems   = "Items"
	GroupChat    = "Chat"
	groupOther   = "Other"
)

var groupOrder = []string{GroupAccount, GroupItems, GroupChat, groupOther}

type entry struct {
	cmd   Command
	group string
}

// registry holds available commands by name.
var registry = map[string]entry{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command outside of any named group.
func RegisterCmd(cmd Command) {
	RegisterGroup(groupOther, cmd)
}

// RegisterGroup adds commands under a help section. Called from init() of each command file.
func RegisterGroup(group string, cmds ...Command) {
	for _, c := range cmds {
		registry[c.Name()] = entry{cmd: c, group: group}
	}
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	e, ok := registry[name]
	return e.cmd, ok
}

// List returns the commands of group sorted by name.
func List(group string) []Command {
	list := make([]Command, 0, len(registry))
	for _, e := range registry {
		if e.group == group {
			list = append(list, e.cmd)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text with commands grouped by section.
func FormatGlobalUsage() string {
	lines := []string{
		"LostFound CLI: report lost and found items and talk to the people who have them.",
		"",
		"Usage:",
		"  lfcli [--base-url <host:port>] [--token-file <path>] <command> [args]",
		"  lfcli help <command>",
	}
	for _, g := range groupOrder {
		cmds := List(g)
		if len(cmds) == 0 {
			continue
		}
		lines = append(lines, "", g+":")
		for _, c := range cmds {
			lines = append(lines, fmt.Sprintf("  %-44s %s", c.Usage(), c.Description()))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
