package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/jask/voxelcmd/internal/database/repository"
)

// Hosted is a plugin the manager can switch on and off.
type Hosted interface {
	Name() string
	Enable() error
	Disable() error
}

// PluginManager implements commands.PluginManager and persists enabled flags.
type PluginManager struct {
	States *repository.PluginRepo
	Logger *zap.Logger

	mu      sync.Mutex
	plugins map[string]Hosted
	enabled map[string]bool
}

// Host adds a plugin. It stays disabled until Restore or Enable.
func (m *PluginManager) Host(p Hosted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.plugins == nil {
		m.plugins = map[string]Hosted{}
		m.enabled = map[string]bool{}
	}
	if _, dup := m.plugins[p.Name()]; dup {
		return fmt.Errorf("plugin %s already hosted", p.Name())
	}
	m.plugins[p.Name()] = p
	return nil
}

// Restore enables every hosted plugin whose stored flag is on. Plugins with no
// stored state are enabled.
func (m *PluginManager) Restore(ctx context.Context) error {
	stored := map[string]bool{}
	if m.States != nil {
		states, err := m.States.List(ctx)
		if err != nil {
			return fmt.Errorf("load plugin states: %w", err)
		}
		for _, s := range states {
			stored[s.Name] = s.Enabled
		}
	}
	for _, name := range m.hosted() {
		on, ok := stored[name]
		if ok && !on {
			continue
		}
		if !m.Enable(name) {
			return fmt.Errorf("enable plugin %s", name)
		}
	}
	return nil
}

// List returns the enabled plugin names, sorted.
func (m *PluginManager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.enabled))
	for name, on := range m.enabled {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Enable switches a plugin on. Enabling an enabled plugin succeeds.
func (m *PluginManager) Enable(name string) bool {
	return m.set(name, true)
}

// Disable switches a plugin off. Disabling a disabled plugin succeeds.
func (m *PluginManager) Disable(name string) bool {
	return m.set(name, false)
}

func (m *PluginManager) set(name string, on bool) bool {
	m.mu.Lock()
	p, ok := m.plugins[name]
	already := ok && m.enabled[name] == on
	m.mu.Unlock()
	if !ok {
		return false
	}
	if !already {
		var err error
		if on {
			err = p.Enable()
		} else {
			err = p.Disable()
		}
		if err != nil {
			logger(m.Logger).Warn("plugin toggle failed", zap.String("plugin", name), zap.Bool("enable", on), zap.Error(err))
			return false
		}
		m.mu.Lock()
		m.enabled[name] = on
		m.mu.Unlock()
	}
	if m.States != nil {
		if err := m.States.SetEnabled(context.Background(), name, on); err != nil {
			logger(m.Logger).Warn("persist plugin state failed", zap.String("plugin", name), zap.Error(err))
		}
	}
	return true
}

func (m *PluginManager) hosted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.plugins))
	for name := range m.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
