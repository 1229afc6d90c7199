package strategy

import (
	"fmt"
	"slices"
	"sync"
)

// Factory is a registry of strategies keyed by kind.
type Factory interface {
	// Register adds s, replacing any strategy of the same kind.
	Register(s Strategy)
	// Get resolves a mode name (or alias) to its strategy.
	Get(name string) (Strategy, error)
	// List returns the registered mode names in canonical order.
	List() []string
	// GetAll returns the registered strategies in canonical order.
	GetAll() []Strategy
}

// DefaultFactory is the thread-safe Factory implementation.
type DefaultFactory struct {
	mu         sync.RWMutex
	strategies map[Kind]Strategy
}

// NewFactory returns an empty factory.
func NewFactory() *DefaultFactory {
	return &DefaultFactory{strategies: make(map[Kind]Strategy)}
}

// NewDefaultFactory returns a factory with every built-in strategy
// registered.
func NewDefaultFactory() *DefaultFactory {
	f := NewFactory()
	for _, k := range AllKinds() {
		s, err := New(k)
		if err != nil {
			panic(fmt.Sprintf("strategy: built-in kind %v: %v", k, err))
		}
		f.Register(s)
	}
	return f
}

// Register adds s to the factory.
func (f *DefaultFactory) Register(s Strategy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strategies[s.Kind()] = s
}

// Get returns the strategy for name.
func (f *DefaultFactory) Get(name string) (Strategy, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.strategies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not registered", ErrUnknownStrategy, name)
	}
	return s, nil
}

func (f *DefaultFactory) kinds() []Kind {
	kinds := make([]Kind, 0, len(f.strategies))
	for k := range f.strategies {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// List returns the registered mode names.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	kinds := f.kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

// GetAll returns the registered strategies.
func (f *DefaultFactory) GetAll() []Strategy {
	f.mu.RLock()
	defer f.mu.RUnlock()
	kinds := f.kinds()
	all := make([]Strategy, len(kinds))
	for i, k := range kinds {
		all[i] = f.strategies[k]
	}
	return all
}

var _ Factory = (*DefaultFactory)(nil)
