// Package command parses text commands and renders engine results into chat
// replies. It is plumbing: every rule lives in the engine.
package command

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/madeofmoss/KoD/internal/engine"
)

// Context carries the invoking chat identity into a handler.
type Context struct {
	PlayerID string
	Name     string // display name, used at setup
}

// Handler executes one command. The returned string is the chat reply.
type Handler func(ctx Context, args []string) (string, error)

// Command is one registered entry.
type Command struct {
	Name    string
	Usage   string
	Help    string
	Handler Handler
}

// Dispatcher routes parsed input to registered commands.
type Dispatcher struct {
	engine *engine.Engine
	cmds   map[string]*Command
}

// NewDispatcher builds a dispatcher with the full command surface registered.
func NewDispatcher(e *engine.Engine) *Dispatcher {
	d := &Dispatcher{engine: e, cmds: make(map[string]*Command)}
	d.registerAll()
	return d
}

func (d *Dispatcher) register(c *Command) {
	d.cmds[c.Name] = c
}

// answerWords short-circuit to the pending-choice protocol before command
// lookup, so "yes" never needs to be a command.
var answerWords = map[string]bool{
	"yes": true, "y": true, "confirm": true, "accept": true,
	"no": true, "n": true, "cancel": true, "decline": true,
}

// Dispatch parses one line of input and returns the reply text. Validation
// failures read back verbatim; anything else is logged and replaced with a
// generic apology.
func (d *Dispatcher) Dispatch(ctx Context, input string) string {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return ""
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	if answerWords[name] {
		reply, err := d.engine.Respond(ctx.PlayerID, name)
		return d.render(ctx, name, reply, err)
	}

	cmd, ok := d.cmds[name]
	if !ok {
		return fmt.Sprintf("Unknown command %q. Try `commands`.", name)
	}
	reply, err := cmd.Handler(ctx, args)
	return d.render(ctx, name, reply, err)
}

func (d *Dispatcher) render(ctx Context, name, reply string, err error) string {
	if err == nil {
		return reply
	}
	if engine.IsValidation(err) {
		return err.Error()
	}
	slog.Error("command failed", "command", name, "player", ctx.PlayerID, "error", err)
	return "Something went wrong in the royal archives. Try again shortly."
}

// helpListing renders the `commands` reply from the registry.
func (d *Dispatcher) helpListing() string {
	names := make([]string, 0, len(d.cmds))
	for name := range d.cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, name := range names {
		c := d.cmds[name]
		fmt.Fprintf(&b, "  %-28s %s\n", c.Usage, c.Help)
	}
	return strings.TrimRight(b.String(), "\n")
}

// usageError standardizes bad-argument replies as validations.
func usageError(c string) error {
	return engine.Validationf("usage: %s", c)
}
