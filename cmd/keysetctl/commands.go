package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-smartaccount/account"
	"github.com/spacemeshos/go-smartaccount/cmd"
	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/config"
	"github.com/spacemeshos/go-smartaccount/controller"
	"github.com/spacemeshos/go-smartaccount/keyset"
	"github.com/spacemeshos/go-smartaccount/log"
	"github.com/spacemeshos/go-smartaccount/store"
)

func hashCommand(fs afero.Fs) *cobra.Command {
	var path string
	c := &cobra.Command{
		Use:   "hash",
		Short: "fold a keyset file into its keyset hash",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			keys, err := loadKeyset(fs, path)
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			for i, key := range keys {
				fmt.Fprintf(out, "%d\t%s\towner=%d assets-op=%d guardian=%d synchronizer=%d\n",
					i, key, key.Weight.Owner, key.Weight.AssetsOp, key.Weight.Guardian, key.Weight.Synchronizer)
			}
			fmt.Fprintln(out, keyset.Fold(keys).Hex())
			return nil
		},
	}
	c.Flags().StringVarP(&path, "keyset", "k", "", "keyset file, toml, yaml or json")
	_ = c.MarkFlagRequired("keyset")
	return c
}

type metaFlags struct {
	account        string
	metaNonce      uint32
	keysetHash     string
	newLockDuring  time.Duration
	implementation string
}

func (f *metaFlags) action(name string) (controller.Action, error) {
	switch name {
	case "update-keyset-hash", "update-keyset-hash-with-timelock":
		h, err := types.HexToHash32(f.keysetHash)
		if err != nil {
			return nil, fmt.Errorf("--keyset-hash: %w", err)
		}
		if name == "update-keyset-hash" {
			return controller.UpdateKeysetHash{KeysetHash: h}, nil
		}
		return controller.UpdateKeysetHashWithTimeLock{KeysetHash: h}, nil
	case "unlock":
		return controller.UnlockKeysetHash{}, nil
	case "cancel-lock":
		return controller.CancelLockKeysetHash{}, nil
	case "update-timelock-during":
		if f.newLockDuring <= 0 || f.newLockDuring%time.Second != 0 {
			return nil, fmt.Errorf("--new-lock-during must be a positive number of seconds, got %s", f.newLockDuring)
		}
		if f.newLockDuring/time.Second > math.MaxUint32 {
			return nil, fmt.Errorf("--new-lock-during must not exceed %d seconds, got %s", uint32(math.MaxUint32), f.newLockDuring)
		}
		return controller.UpdateTimeLockDuring{LockDuring: uint32(f.newLockDuring / time.Second)}, nil
	case "update-implementation":
		addr, err := types.HexToAddress(f.implementation)
		if err != nil {
			return nil, fmt.Errorf("--implementation: %w", err)
		}
		return controller.UpdateImplementation{Implementation: addr}, nil
	default:
		return nil, fmt.Errorf("unknown meta action %q", name)
	}
}

func metaDigestCommand() *cobra.Command {
	var f metaFlags
	c := &cobra.Command{
		Use:   "meta-digest <action>",
		Short: "print the digest and calldata of a meta action",
		Long: `Prints the digest that keyset members sign for a meta action and the
account call that carries it. Actions: update-keyset-hash,
update-keyset-hash-with-timelock, unlock, cancel-lock,
update-timelock-during, update-implementation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			addr, err := types.HexToAddress(f.account)
			if err != nil {
				return fmt.Errorf("--account: %w", err)
			}
			action, err := f.action(args[0])
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			fmt.Fprintf(out, "digest\t%s\n", controller.MetaDigest(f.metaNonce, addr, action).Hex())
			fmt.Fprintf(out, "calldata\t0x%x\n", controller.EncodeAccountCall(f.metaNonce, action))
			return nil
		},
	}
	c.Flags().StringVar(&f.account, "account", "", "account address")
	c.Flags().Uint32Var(&f.metaNonce, "meta-nonce", 0, "current meta nonce of the account")
	c.Flags().StringVar(&f.keysetHash, "keyset-hash", "", "new keyset hash")
	c.Flags().DurationVar(&f.newLockDuring, "new-lock-during", 0, "new timelock delay")
	c.Flags().StringVar(&f.implementation, "implementation", "", "new implementation address")
	_ = c.MarkFlagRequired("account")
	return c
}

// withStore loads the config, opens the state store and passes them to fn.
func withStore(c *cobra.Command, fn func(*config.Config, *zap.Logger, *store.Store) error) error {
	cfg, err := cmd.Load(c)
	if err != nil {
		return err
	}
	logger, err := log.New("keysetctl", cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("loaded config", zap.Object("config", &cfg))

	storeCfg := cfg.Store
	storeCfg.Path = cfg.StorePath()
	db, err := store.Open(storeCfg, store.WithLogger(logger.Named("store")))
	if err != nil {
		return err
	}
	return errors.Join(fn(&cfg, logger, db), db.Close())
}

func stateCommand() *cobra.Command {
	var account string
	c := &cobra.Command{
		Use:   "state",
		Short: "print the persisted state of an account",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			addr, err := types.HexToAddress(account)
			if err != nil {
				return fmt.Errorf("--account: %w", err)
			}
			return withStore(c, func(_ *config.Config, _ *zap.Logger, db *store.Store) error {
				state, err := db.Get(addr)
				if err != nil {
					return err
				}
				printState(c.OutOrStdout(), addr, state)
				return nil
			})
		},
	}
	defaults := config.DefaultConfig()
	cmd.AddFlags(c.Flags(), &defaults)
	c.Flags().StringVar(&account, "account", "", "account address")
	_ = c.MarkFlagRequired("account")
	return c
}

func accountsCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "accounts",
		Short: "list persisted accounts",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return withStore(c, func(_ *config.Config, logger *zap.Logger, db *store.Store) error {
				out := c.OutOrStdout()
				count := 0
				err := db.Iterate(func(addr types.Address, state *account.State) bool {
					fmt.Fprintf(out, "%s\t%s\tmeta-nonce=%d nonce=%d\n",
						addr.Hex(), state.KeysetHash.Hex(), state.MetaNonce, state.Nonce)
					count++
					return true
				})
				logger.Debug("listed accounts", zap.Int("count", count))
				return err
			})
		},
	}
	defaults := config.DefaultConfig()
	cmd.AddFlags(c.Flags(), &defaults)
	return c
}

func printState(out io.Writer, addr types.Address, state *account.State) {
	fmt.Fprintf(out, "account\t%s\n", addr.Hex())
	fmt.Fprintf(out, "keyset-hash\t%s\n", state.KeysetHash.Hex())
	fmt.Fprintf(out, "meta-nonce\t%d\n", state.MetaNonce)
	fmt.Fprintf(out, "nonce\t%d\n", state.Nonce)
	fmt.Fprintf(out, "implementation\t%s\n", state.Implementation.Hex())
	fmt.Fprintf(out, "lock-during\t%s\n", time.Duration(state.LockDuring)*time.Second)
	if state.Lock.Locked {
		fmt.Fprintf(out, "pending-keyset-hash\t%s\n", state.Lock.PendingKeysetHash.Hex())
		fmt.Fprintf(out, "unlock-after\t%s\n", time.Unix(int64(state.Lock.UnlockAfter), 0).UTC().Format(time.RFC3339))
	}
	for _, entry := range state.HookEntries() {
		fmt.Fprintf(out, "hook\t%s\t%s\n", entry.Selector, entry.Target.Hex())
	}
	for _, sel := range state.Permissions.Sorted() {
		fmt.Fprintf(out, "permission\t%s\t%s\n", sel, state.Permissions[sel])
	}
}
