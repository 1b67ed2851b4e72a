package bundlers

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-resave/resave"
)

const defaultBundlerKey = "raw"

var globalRegistry = newRegistry()

// Registration ties a bundler key to its implementation.
type Registration struct {
	// Key selects the bundler from config files, matched case-insensitively.
	Key string
	// Description is a one-line summary shown by the diagnostics endpoints.
	Description string
	// Bundler is the compile backend itself.
	Bundler resave.Bundler
}

type registry struct {
	mu       sync.RWMutex
	bundlers map[string]Registration
}

func newRegistry() *registry {
	return &registry{bundlers: make(map[string]Registration)}
}

// Register adds a bundler to the global registry; duplicate keys fail.
func Register(reg Registration) error {
	return globalRegistry.register(reg)
}

// MustRegister panics when registration fails, for use from package init().
func MustRegister(reg Registration) {
	if err := Register(reg); err != nil {
		panic(err)
	}
}

// Resolve returns the registration for key.
func Resolve(key string) (Registration, bool) {
	return globalRegistry.resolve(key)
}

// List returns all registrations ordered by key.
func List() []Registration {
	return globalRegistry.list()
}

// Keys returns the keys of all registered bundlers, for diagnostics.
func Keys() []string {
	items := List()
	result := make([]string, len(items))
	for i, reg := range items {
		result[i] = reg.Key
	}
	return result
}

// DefaultKey returns the key of the builtin raw bundler.
func DefaultKey() string {
	return defaultBundlerKey
}

func (r *registry) normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (r *registry) register(reg Registration) error {
	if reg.Key == "" {
		return fmt.Errorf("bundler key is required")
	}
	key := r.normalizeKey(reg.Key)
	if key == "" {
		return fmt.Errorf("bundler key is required")
	}
	if reg.Bundler == nil {
		return fmt.Errorf("bundler %s has no implementation", key)
	}
	reg.Key = key

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bundlers[key]; exists {
		return fmt.Errorf("bundler %s already registered", key)
	}
	r.bundlers[key] = reg
	return nil
}

func (r *registry) resolve(key string) (Registration, bool) {
	if key == "" {
		return Registration{}, false
	}
	normalized := r.normalizeKey(key)

	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.bundlers[normalized]
	return reg, ok
}

func (r *registry) list() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.bundlers) == 0 {
		return nil
	}

	keys := make([]string, 0, len(r.bundlers))
	for key := range r.bundlers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]Registration, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.bundlers[key])
	}
	return result
}
