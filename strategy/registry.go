package strategy

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor builds a strategy with default parameters.
type Constructor func(d Deps) (Strategy, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register makes a constructor available by name. It panics on duplicates.
func Register(name string, c Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if c == nil {
		panic("strategy: Register constructor is nil")
	}
	if _, dup := registry[name]; dup {
		panic("strategy: Register called twice for " + name)
	}
	registry[name] = c
}

func New(name string, d Deps) (Strategy, error) {
	registryMu.RLock()
	c, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return c(d)
}

// Names lists registered strategies in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// register adapts a typed constructor to Constructor.
func register[S Strategy](name string, ctor func(Deps) (S, error)) {
	Register(name, func(d Deps) (Strategy, error) {
		s, err := ctor(d)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
