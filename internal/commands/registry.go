package commands

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Command is behavior bound to one or more command names.
type Command interface {
	Invoke(args []string)
}

type funcCommand struct {
	fn func(args []string)
}

func (c *funcCommand) Invoke(args []string) { c.fn(args) }

// Func adapts fn into a Command. Each call returns a distinct Command, so keep
// the returned value to unregister it later.
func Func(fn func(args []string)) Command {
	return &funcCommand{fn: fn}
}

// Usage documents one primary command name.
type Usage struct {
	Name string
	Text string
}

// Registry maps command names to commands. Aliases are separate keys bound
// to the same Command value.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Command
	usages   map[string]string
	order    []string // documented names in registration order
	builtin  map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: map[string]Command{},
		usages:   map[string]string{},
		builtin:  map[string]bool{},
	}
}

// Register binds cmd under name and records "usage -- help" for listings.
func (r *Registry) Register(name string, cmd Command, usage, help string) error {
	if err := validCommand(name, cmd); err != nil {
		return err
	}
	text := usage
	if help != "" {
		text = strings.TrimSpace(usage + " -- " + help)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	r.handlers[name] = cmd
	r.usages[name] = text
	r.order = append(r.order, name)
	return nil
}

// Unregister removes name only when it is bound to exactly cmd.
func (r *Registry) Unregister(name string, cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bound, ok := r.handlers[name]
	if !ok {
		return fmt.Errorf("%w: %s is not registered", ErrHandlerMismatch, name)
	}
	if r.builtin[name] {
		return fmt.Errorf("%w: %s is built in", ErrHandlerMismatch, name)
	}
	if cmd == nil || !reflect.TypeOf(cmd).Comparable() || bound != cmd {
		return fmt.Errorf("%w: %s is bound to another command", ErrHandlerMismatch, name)
	}
	delete(r.handlers, name)
	if _, documented := r.usages[name]; documented {
		delete(r.usages, name)
		for i, n := range r.order {
			if n == name {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Lookup returns the command bound to name.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.handlers[name]
	return cmd, ok
}

// Usages lists documented commands in registration order.
func (r *Registry) Usages() []Usage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Usage, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Usage{Name: name, Text: r.usages[name]})
	}
	return out
}

// Names returns every bound name, aliases included, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// alias binds cmd under extra undocumented names. Setup only.
func (r *Registry) alias(cmd Command, names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		if err := validCommand(name, cmd); err != nil {
			return err
		}
		if _, ok := r.handlers[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
		}
	}
	for _, name := range names {
		r.handlers[name] = cmd
	}
	return nil
}

// protect marks names as built in so they can never be unregistered.
func (r *Registry) protect(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.builtin[name] = true
	}
}

func validCommand(name string, cmd Command) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidCommand)
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("%w: name %q contains whitespace", ErrInvalidCommand, name)
	}
	if cmd == nil {
		return fmt.Errorf("%w: nil command for %s", ErrInvalidCommand, name)
	}
	if !reflect.TypeOf(cmd).Comparable() {
		return fmt.Errorf("%w: %T is not comparable", ErrInvalidCommand, cmd)
	}
	return nil
}
