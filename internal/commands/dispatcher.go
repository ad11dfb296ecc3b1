package commands

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"
)

// Marker prefixes a console line that should run as a command.
const Marker = "."

// maxSuggestDistance bounds the edit distance of "did you mean" hints.
const maxSuggestDistance = 2

// Dispatcher routes console lines to commands or chat.
type Dispatcher struct {
	registry *Registry
	relay    *ChatRelay
	console  Console
	unknown  Command
	logger   *zap.Logger
}

func NewDispatcher(registry *Registry, relay *ChatRelay, console Console, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		registry: registry,
		relay:    relay,
		console:  console,
		logger:   logger,
	}
	d.unknown = Func(d.invalidCommand)
	return d
}

// Process handles one input line. Lines without the marker go to chat and are
// never tokenized. Panics raised by a command propagate to the caller.
func (d *Dispatcher) Process(line string) {
	if !strings.HasPrefix(line, Marker) {
		d.relay.Send(line)
		return
	}

	words := Tokenize(strings.TrimPrefix(line, Marker))
	name := ""
	var args []string
	if len(words) > 0 {
		name = words[0]
		args = words[1:]
	}
	if args == nil {
		args = []string{}
	}

	cmd, ok := d.registry.Lookup(name)
	if !ok {
		d.logger.Debug("unknown command", zap.String("command", name))
		cmd = d.unknown
		args = append([]string{name}, args...)
	} else {
		d.logger.Debug("dispatch command", zap.String("command", name), zap.Strings("args", args))
	}
	cmd.Invoke(args)
}

func (d *Dispatcher) invalidCommand(args []string) {
	if len(args) == 0 {
		d.console.Log("Invalid command")
		return
	}
	d.console.Log(strings.TrimSpace("Invalid command " + strings.Join(args, " ")))
	if hint := d.suggest(args[0]); hint != "" {
		d.console.Log(fmt.Sprintf("Did you mean %s%s?", Marker, hint))
	}
}

// suggest returns the closest bound name. Short names tolerate fewer edits so
// that one-letter aliases are not offered for everything.
func (d *Dispatcher) suggest(name string) string {
	limit := min(maxSuggestDistance, len(name)/2)
	if limit == 0 {
		return ""
	}
	best, bestDist := "", limit+1
	for _, candidate := range d.registry.Names() {
		dist := levenshtein.ComputeDistance(name, candidate)
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best
}
