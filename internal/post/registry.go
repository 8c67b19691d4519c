package post

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrUnknownPost is returned by New for an unregistered backend name.
var ErrUnknownPost = errors.New("unknown robot post")

// Factory builds a post from its configuration.
type Factory func(cfg Config, env Env) (Post, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a dialect available under name.
// Panics if name is empty or already registered.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" || f == nil {
		panic("post: Register needs a name and a factory")
	}
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("post: Register called twice for %q", name))
	}
	registry[name] = f
}

// New constructs the dialect named by cfg.Post.
func New(cfg Config, env Env) (Post, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registryMu.RLock()
	f, ok := registry[cfg.Post]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownPost, cfg.Post, Names())
	}
	return f(cfg.Clone(), env)
}

// Names returns the registered dialect names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}
