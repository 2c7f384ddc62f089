package credentials

import (
	"context"
	"sync"

	"github.com/spacemeshos/go-smartaccount/common/types"
)

// StaticWhitelist is an in-memory allow-list of implementations and hooks.
type StaticWhitelist struct {
	mu              sync.RWMutex
	implementations map[types.Address]struct{}
	hooks           map[types.Address]struct{}
}

// NewStaticWhitelist creates an allow-list with the given implementations and hooks.
func NewStaticWhitelist(implementations, hooks []types.Address) *StaticWhitelist {
	w := &StaticWhitelist{
		implementations: make(map[types.Address]struct{}, len(implementations)),
		hooks:           make(map[types.Address]struct{}, len(hooks)),
	}
	for _, addr := range implementations {
		w.implementations[addr] = struct{}{}
	}
	for _, addr := range hooks {
		w.hooks[addr] = struct{}{}
	}
	return w
}

// AllowImplementation adds addr to the implementation allow-list.
func (w *StaticWhitelist) AllowImplementation(addr types.Address) {
	w.mu.Lock()
	w.implementations[addr] = struct{}{}
	w.mu.Unlock()
}

// AllowHook adds addr to the hook allow-list.
func (w *StaticWhitelist) AllowHook(addr types.Address) {
	w.mu.Lock()
	w.hooks[addr] = struct{}{}
	w.mu.Unlock()
}

// IsImplementationAllowed reports whether addr can become the account implementation.
func (w *StaticWhitelist) IsImplementationAllowed(_ context.Context, addr types.Address) (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.implementations[addr]
	return ok, nil
}

// IsHookAllowed reports whether addr can be registered as a hook.
func (w *StaticWhitelist) IsHookAllowed(_ context.Context, addr types.Address) (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.hooks[addr]
	return ok, nil
}
