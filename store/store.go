// Package store persists account states in leveldb.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-smartaccount/account"
	"github.com/spacemeshos/go-smartaccount/codec"
	"github.com/spacemeshos/go-smartaccount/common/types"
)

// ErrNotFound is returned for accounts without a persisted state.
var ErrNotFound = errors.New("account state not found")

// ErrClosed is returned after Close.
var ErrClosed = errors.New("store closed")

var statePrefix = []byte("s/")

// Config for the leveldb store.
type Config struct {
	Path string `mapstructure:"path"`
	// CacheMiB is the memory used for block cache and write buffer.
	CacheMiB int `mapstructure:"cache-mib"`
	Handles  int `mapstructure:"handles"`
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Path:     "state",
		CacheMiB: 16,
		Handles:  16,
	}
}

// Validate checks that the store can be opened with the config.
func (c Config) Validate() error {
	if c.Path == "" {
		return errors.New("store path is empty")
	}
	if c.CacheMiB < 0 || c.Handles < 0 {
		return fmt.Errorf("negative store resources: cache %d MiB, %d handles", c.CacheMiB, c.Handles)
	}
	return nil
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (c Config) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("path", c.Path)
	encoder.AddInt("cache-mib", c.CacheMiB)
	encoder.AddInt("handles", c.Handles)
	return nil
}

// Opt for configuring Store.
type Opt func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store is a leveldb database of account states keyed by address.
type Store struct {
	logger *zap.Logger
	path   string

	mu sync.RWMutex
	db *leveldb.DB
}

// Open opens or creates the database at cfg.Path. A corrupted database is recovered.
func Open(cfg Config, opts ...Opt) (*Store, error) {
	s := &Store{logger: zap.NewNop(), path: cfg.Path}
	for _, opt := range opts {
		opt(s)
	}
	cache := max(cfg.CacheMiB, 16)
	handles := max(cfg.Handles, 16)
	s.logger.Info("opening state store",
		zap.String("path", cfg.Path),
		zap.Int("cache_mib", cache),
		zap.Int("handles", handles),
	)
	db, err := leveldb.OpenFile(cfg.Path, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	var corrupted *lerrors.ErrCorrupted
	if errors.As(err, &corrupted) {
		s.logger.Warn("recovering corrupted state store", zap.String("path", cfg.Path), zap.Error(err))
		db, err = leveldb.RecoverFile(cfg.Path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open state store %s: %w", cfg.Path, err)
	}
	s.db = db
	return s, nil
}

// NewMemory returns a store backed by memory.
func NewMemory(opts ...Opt) *Store {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		panic("open in-memory leveldb: " + err.Error())
	}
	s := &Store{logger: zap.NewNop(), db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func stateKey(addr types.Address) []byte {
	key := make([]byte, 0, len(statePrefix)+types.AddressLength)
	key = append(key, statePrefix...)
	return append(key, addr.Bytes()...)
}

// Put stores the state of the account.
func (s *Store) Put(addr types.Address, state *account.State) error {
	buf, err := codec.Encode(state)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", addr.Hex(), err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	if err := s.db.Put(stateKey(addr), buf, nil); err != nil {
		return fmt.Errorf("put state %s: %w", addr.Hex(), err)
	}
	return nil
}

// Get loads the state of the account.
func (s *Store) Get(addr types.Address) (*account.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrClosed
	}
	buf, err := s.db.Get(stateKey(addr), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("get state %s: %w", addr.Hex(), err)
	}
	var state account.State
	if err := codec.Decode(buf, &state); err != nil {
		return nil, fmt.Errorf("state %s: %w", addr.Hex(), err)
	}
	return &state, nil
}

// Has returns true if the account has a persisted state.
func (s *Store) Has(addr types.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return false, ErrClosed
	}
	has, err := s.db.Has(stateKey(addr), nil)
	if err != nil {
		return false, fmt.Errorf("check state %s: %w", addr.Hex(), err)
	}
	return has, nil
}

// Delete removes the state of the account.
func (s *Store) Delete(addr types.Address) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	if err := s.db.Delete(stateKey(addr), nil); err != nil {
		return fmt.Errorf("delete state %s: %w", addr.Hex(), err)
	}
	return nil
}

// Iterate calls fn for every persisted account in address order until fn returns false.
func (s *Store) Iterate(fn func(types.Address, *account.State) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	it := s.db.NewIterator(util.BytesPrefix(statePrefix), nil)
	defer it.Release()
	for it.Next() {
		addr := types.BytesToAddress(it.Key()[len(statePrefix):])
		var state account.State
		if err := codec.Decode(it.Value(), &state); err != nil {
			return fmt.Errorf("state %s: %w", addr.Hex(), err)
		}
		if !fn(addr, &state) {
			break
		}
	}
	return it.Error()
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		s.logger.Error("failed to close state store", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("close state store: %w", err)
	}
	s.logger.Info("state store closed", zap.String("path", s.path))
	return nil
}
