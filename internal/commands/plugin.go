package commands

import (
	"errors"

	"go.uber.org/zap"
)

// PluginName is the name the interpreter is hosted under.
const PluginName = "voxel-commands"

// Plugin is the command interpreter: registry, dispatcher and chat relay
// wired to one console.
type Plugin struct {
	registry   *Registry
	dispatcher *Dispatcher
	relay      *ChatRelay
	logger     *zap.Logger
	enabled    bool
}

type Option func(*Plugin)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New builds the interpreter with its built-in commands. It does not attach
// any listeners; call Enable for that.
func New(deps Deps, opts ...Option) (*Plugin, error) {
	if deps.Console == nil {
		return nil, errors.New("voxel-commands requires a console")
	}
	if deps.Registry == nil {
		return nil, errors.New("voxel-commands requires an item registry")
	}
	p := &Plugin{registry: NewRegistry(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named(PluginName)
	p.relay = NewChatRelay(deps.Console, deps.Network, p.logger)
	p.dispatcher = NewDispatcher(p.registry, p.relay, deps.Console, p.logger)
	(&builtins{deps: deps, registry: p.registry}).install()
	return p, nil
}

func (p *Plugin) Name() string { return PluginName }

// Process runs one console line.
func (p *Plugin) Process(line string) { p.dispatcher.Process(line) }

// Register adds a command owned by the caller.
func (p *Plugin) Register(name string, cmd Command, usage, help string) error {
	if err := p.registry.Register(name, cmd, usage, help); err != nil {
		return err
	}
	p.logger.Debug("command registered", zap.String("command", name))
	return nil
}

// Unregister removes a command previously registered by the caller.
func (p *Plugin) Unregister(name string, cmd Command) error {
	if err := p.registry.Unregister(name, cmd); err != nil {
		return err
	}
	p.logger.Debug("command unregistered", zap.String("command", name))
	return nil
}

func (p *Plugin) Registry() *Registry { return p.registry }

// Relay returns the relay plain lines and inbound chat go through.
func (p *Plugin) Relay() *ChatRelay { return p.relay }

// Enable attaches the console and chat listeners.
func (p *Plugin) Enable() error {
	p.relay.Enable(p.Process)
	p.enabled = true
	return nil
}

// Disable detaches the listeners. An event already being delivered may still
// run once.
func (p *Plugin) Disable() error {
	p.relay.Disable()
	p.enabled = false
	return nil
}

func (p *Plugin) Enabled() bool { return p.enabled }
