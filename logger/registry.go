package logger

import (
	"sync"
)

// Named loggers for pipeline components (session, transport, trust, ...).
// Get derives a logger tagged with the component field from the global
// logger and caches it until the global logger is replaced. Register pins an
// explicit logger under a name instead.
var registry = &loggerRegistry{
	pinned:  make(map[string]*Logger),
	derived: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	pinned  map[string]*Logger
	derived map[string]*Logger
	base    *Logger
}

// Register pins l under name. Get returns it until Unregister is called.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.pinned[name] = l
}

// Unregister drops a pinned logger; Get derives one from the global logger again.
func Unregister(name string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.pinned, name)
}

// Get returns the logger for a component.
func Get(name string) *Logger {
	base := GetGlobalLogger()

	registry.mu.RLock()
	if l, ok := registry.pinned[name]; ok {
		registry.mu.RUnlock()
		return l
	}
	if registry.base == base {
		if l, ok := registry.derived[name]; ok {
			registry.mu.RUnlock()
			return l
		}
	}
	registry.mu.RUnlock()

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if l, ok := registry.pinned[name]; ok {
		return l
	}
	if registry.base != base {
		registry.base = base
		registry.derived = make(map[string]*Logger)
	}
	l, ok := registry.derived[name]
	if !ok {
		l = base.WithComponent(name)
		registry.derived[name] = l
	}
	return l
}
