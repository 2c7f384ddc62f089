// Package controller implements the account controller: the meta layer that
// governs the keyset hash and the call layer that executes signed batches.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-smartaccount/account"
	"github.com/spacemeshos/go-smartaccount/auth"
	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/log"
	"github.com/spacemeshos/go-smartaccount/policy"
)

// Opt is for configuring Controller.
type Opt func(*Controller)

// WithLogger sets logger for Controller.
func WithLogger(logger *zap.Logger) Opt {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock sets the clock used for timelocks.
func WithClock(clock clockwork.Clock) Opt {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithConfig overwrites the default configuration.
func WithConfig(cfg Config) Opt {
	return func(c *Controller) {
		c.cfg = cfg
	}
}

// WithHost sets the host that executes forwarded calls.
func WithHost(host Host) Opt {
	return func(c *Controller) {
		c.host = host
	}
}

// WithWhitelist sets the implementation and hook allow-list.
func WithWhitelist(whitelist Whitelist) Opt {
	return func(c *Controller) {
		c.whitelist = whitelist
	}
}

// WithVerifier replaces the default native-only verifier.
func WithVerifier(verifier Verifier) Opt {
	return func(c *Controller) {
		c.verifier = verifier
	}
}

// WithStore persists the state after every applied request.
func WithStore(store Store) Opt {
	return func(c *Controller) {
		c.store = store
	}
}

// WithImplementation sets the implementation of a new account.
func WithImplementation(impl types.Address) Opt {
	return func(c *Controller) {
		c.implementation = impl
	}
}

// Controller is a single account. Requests are applied one at a time and
// either apply completely or leave the state untouched.
type Controller struct {
	logger         *zap.Logger
	clock          clockwork.Clock
	cfg            Config
	address        types.Address
	implementation types.Address
	host           Host
	whitelist      Whitelist
	verifier       Verifier
	store          Store

	mu    sync.Mutex
	state *account.State
}

func newController(address types.Address, opts []Opt) (*Controller, error) {
	c := &Controller{
		logger:  zap.NewNop(),
		clock:   clockwork.NewRealClock(),
		cfg:     DefaultConfig(),
		address: address,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if c.verifier == nil {
		c.verifier = auth.NewVerifier(
			auth.WithLogger(c.logger),
			auth.WithClock(c.clock),
			auth.WithThresholds(c.cfg.Thresholds),
			auth.WithSessionWeightCeiling(c.cfg.SessionWeightCeiling),
		)
	}
	c.logger = c.logger.With(log.ZAddress("account", address))
	return c, nil
}

// New creates the controller of a freshly deployed account.
func New(address types.Address, keysetHash types.Hash32, opts ...Opt) (*Controller, error) {
	c, err := newController(address, opts)
	if err != nil {
		return nil, err
	}
	state := account.New(keysetHash, c.implementation, uint32(c.cfg.LockDuring/time.Second))
	if c.store != nil {
		if err := c.store.Put(address, state); err != nil {
			return nil, fmt.Errorf("persist initial state: %w", err)
		}
	}
	c.state = state
	c.logger.Info("account created", zap.Object("state", state))
	return c, nil
}

// Load creates the controller of an account persisted in the store.
func Load(address types.Address, store Store, opts ...Opt) (*Controller, error) {
	c, err := newController(address, append(opts, WithStore(store)))
	if err != nil {
		return nil, err
	}
	state, err := store.Get(address)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", address.Hex(), err)
	}
	c.state = state
	c.logger.Debug("account loaded", zap.Object("state", state))
	return c, nil
}

// Address of the account.
func (c *Controller) Address() types.Address {
	return c.address
}

// State returns a copy of the current state.
func (c *Controller) State() *account.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *Controller) domain() auth.Domain {
	return auth.Domain{ChainID: c.cfg.ChainID, Account: c.address}
}

func (c *Controller) now() uint64 {
	return uint64(c.clock.Now().Unix())
}

// commit persists state and makes it current. Must be called with mu held.
func (c *Controller) commit(state *account.State) error {
	if c.store != nil {
		if err := c.store.Put(c.address, state); err != nil {
			return fmt.Errorf("persist state: %w", err)
		}
	}
	c.state = state
	return nil
}

// ApplyMeta applies a meta action signed over MetaDigest. Actions without a
// requirement, such as UnlockKeysetHash, accept an empty proof.
func (c *Controller) ApplyMeta(
	ctx context.Context,
	metaNonce uint32,
	action Action,
	proof []byte,
) (*account.Receipt, error) {
	if !IsMetaAction(action) {
		requests.WithLabelValues("meta", "malformed").Inc()
		return nil, fmt.Errorf("%w: %s is not a meta action", ErrMalformedCall, action.Kind())
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	receipt, err := c.applyMeta(ctx, metaNonce, action, proof)
	if err != nil {
		requests.WithLabelValues("meta", resultLabel(err)).Inc()
		c.logger.Debug("meta action rejected",
			zap.Stringer("action", action.Kind()),
			zap.Uint32("meta_nonce", metaNonce),
			zap.Error(err),
		)
		return nil, err
	}
	requests.WithLabelValues("meta", "ok").Inc()
	c.logger.Info("meta action applied",
		zap.Stringer("action", action.Kind()),
		log.ZHash32("digest", receipt.Digest),
		zap.Uint32("meta_nonce", c.state.MetaNonce),
	)
	return receipt, nil
}

func (c *Controller) applyMeta(
	ctx context.Context,
	metaNonce uint32,
	action Action,
	proof []byte,
) (*account.Receipt, error) {
	if metaNonce != c.state.MetaNonce {
		return nil, fmt.Errorf("%w (%w): got %d, expected %d",
			ErrInvalidMetaNonce, ErrInvalidNonce, metaNonce, c.state.MetaNonce)
	}
	digest := MetaDigest(metaNonce, c.address, action)
	if reqs := c.cfg.Thresholds.Requirements(action.Kind()); len(reqs) > 0 {
		weight, err := c.verifier.Authorize(ctx, c.domain(), digest, proof, c.state.KeysetHash, reqs...)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("meta action authorized", log.ZRoleWeight("weight", weight))
	}
	receipt := &account.Receipt{Digest: digest}
	staged := c.state.Clone()
	if err := c.apply(ctx, staged, action, receipt); err != nil {
		return nil, err
	}
	if err := c.commit(staged); err != nil {
		return nil, err
	}
	return receipt, nil
}

// apply executes the state transition of the action on state. Meta actions
// advance the meta nonce. state is left in an unspecified condition on error.
func (c *Controller) apply(ctx context.Context, state *account.State, action Action, receipt *account.Receipt) error {
	switch a := action.(type) {
	case UpdateKeysetHash:
		state.KeysetHash = a.KeysetHash
		state.Lock = account.Lock{}
		receipt.Emit(account.KeysetHashUpdated{KeysetHash: a.KeysetHash})
	case UpdateKeysetHashWithTimeLock:
		state.Lock = account.Lock{
			Locked:            true,
			PendingKeysetHash: a.KeysetHash,
			UnlockAfter:       c.now() + uint64(state.LockDuring),
		}
		receipt.Emit(account.KeysetHashLocked{PendingKeysetHash: a.KeysetHash, UnlockAfter: state.Lock.UnlockAfter})
	case UnlockKeysetHash:
		if !state.Lock.Locked {
			return ErrNotLocked
		}
		if now := c.now(); now < state.Lock.UnlockAfter {
			return fmt.Errorf("%w: now %d, unlock after %d", ErrUnlockTooEarly, now, state.Lock.UnlockAfter)
		}
		state.KeysetHash = state.Lock.PendingKeysetHash
		state.Lock = account.Lock{}
		receipt.Emit(account.KeysetHashUnlocked{KeysetHash: state.KeysetHash})
	case CancelLockKeysetHash:
		if !state.Lock.Locked {
			return ErrNotLocked
		}
		pending := state.Lock.PendingKeysetHash
		state.Lock = account.Lock{}
		receipt.Emit(account.LockCanceled{PendingKeysetHash: pending})
	case UpdateTimeLockDuring:
		state.LockDuring = a.LockDuring
		receipt.Emit(account.TimeLockDuringUpdated{LockDuring: a.LockDuring})
	case UpdateImplementation:
		if err := c.checkImplementation(ctx, a.Implementation); err != nil {
			return err
		}
		state.Implementation = a.Implementation
		receipt.Emit(account.ImplementationUpdated{Implementation: a.Implementation})
	case AddHook:
		if policy.IsImmutable(a.Selector) {
			return fmt.Errorf("%w: %s", policy.ErrImmutableSelectorSigWeight, a.Selector)
		}
		if err := c.checkHook(ctx, a.Target); err != nil {
			return err
		}
		state.Hooks[a.Selector] = a.Target
		receipt.Emit(account.HookAdded{Selector: a.Selector, Target: a.Target})
	case RemoveHook:
		if _, ok := state.Hooks[a.Selector]; !ok {
			return fmt.Errorf("%w: %s", ErrHookNotFound, a.Selector)
		}
		delete(state.Hooks, a.Selector)
		receipt.Emit(account.HookRemoved{Selector: a.Selector})
	case AddPermission:
		if err := state.Permissions.Add(a.Selector, a.Requirement); err != nil {
			return err
		}
		receipt.Emit(account.PermissionAdded{Selector: a.Selector, Requirement: a.Requirement})
	case RemovePermission:
		if err := state.Permissions.Remove(a.Selector); err != nil {
			return err
		}
		receipt.Emit(account.PermissionRemoved{Selector: a.Selector})
	default:
		return fmt.Errorf("%w: unsupported action %T", ErrMalformedCall, action)
	}
	if IsMetaAction(action) {
		state.MetaNonce++
	}
	return nil
}

func (c *Controller) checkImplementation(ctx context.Context, impl types.Address) error {
	if c.whitelist == nil {
		return fmt.Errorf("%w: no allow-list configured", ErrImplementationNotAllowed)
	}
	ok, err := c.whitelist.IsImplementationAllowed(ctx, impl)
	if err != nil {
		return fmt.Errorf("check implementation %s: %w", impl.Hex(), err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrImplementationNotAllowed, impl.Hex())
	}
	return nil
}

func (c *Controller) checkHook(ctx context.Context, hook types.Address) error {
	if c.whitelist == nil {
		return fmt.Errorf("%w: no allow-list configured", ErrHookNotAllowed)
	}
	ok, err := c.whitelist.IsHookAllowed(ctx, hook)
	if err != nil {
		return fmt.Errorf("check hook %s: %w", hook.Hex(), err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrHookNotAllowed, hook.Hex())
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidNonce):
		return "invalid_nonce"
	case errors.Is(err, auth.ErrInsufficientWeight):
		return "insufficient_weight"
	case errors.Is(err, ErrMalformedCall):
		return "malformed"
	default:
		return "rejected"
	}
}
