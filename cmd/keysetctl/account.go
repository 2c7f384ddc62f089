package main

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-smartaccount/auth"
	"github.com/spacemeshos/go-smartaccount/cmd"
	"github.com/spacemeshos/go-smartaccount/common/types"
	"github.com/spacemeshos/go-smartaccount/config"
	"github.com/spacemeshos/go-smartaccount/controller"
	"github.com/spacemeshos/go-smartaccount/credentials"
	"github.com/spacemeshos/go-smartaccount/store"
)

var errAccountExists = errors.New("account already exists")

// controllerOpts builds the controller collaborators described by cfg.
func controllerOpts(cfg *config.Config, logger *zap.Logger) ([]controller.Opt, error) {
	registry, err := credentials.NewRegistry(cfg.Credentials, credentials.WithLogger(logger.Named("credentials")))
	if err != nil {
		return nil, err
	}
	verifier := auth.NewVerifier(append(registry.VerifierOpts(),
		auth.WithLogger(logger.Named("auth")),
		auth.WithThresholds(cfg.Controller.Thresholds),
		auth.WithSessionWeightCeiling(cfg.Controller.SessionWeightCeiling),
	)...)
	return []controller.Opt{
		controller.WithLogger(logger.Named("controller")),
		controller.WithConfig(cfg.Controller),
		controller.WithVerifier(verifier),
		controller.WithWhitelist(credentials.NewStaticWhitelist(cfg.Whitelist.Implementations, cfg.Whitelist.Hooks)),
	}, nil
}

func createCommand() *cobra.Command {
	var account, keysetHash, implementation string
	c := &cobra.Command{
		Use:   "create",
		Short: "persist the initial state of an account",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			addr, err := types.HexToAddress(account)
			if err != nil {
				return fmt.Errorf("--account: %w", err)
			}
			h, err := types.HexToHash32(keysetHash)
			if err != nil {
				return fmt.Errorf("--keyset-hash: %w", err)
			}
			var impl types.Address
			if implementation != "" {
				if impl, err = types.HexToAddress(implementation); err != nil {
					return fmt.Errorf("--implementation: %w", err)
				}
			}
			return withStore(c, func(cfg *config.Config, logger *zap.Logger, db *store.Store) error {
				exists, err := db.Has(addr)
				if err != nil {
					return err
				}
				if exists {
					return fmt.Errorf("%w: %s", errAccountExists, addr.Hex())
				}
				opts, err := controllerOpts(cfg, logger)
				if err != nil {
					return err
				}
				ctrl, err := controller.New(addr, h,
					append(opts, controller.WithStore(db), controller.WithImplementation(impl))...)
				if err != nil {
					return err
				}
				printState(c.OutOrStdout(), addr, ctrl.State())
				return nil
			})
		},
	}
	defaults := config.DefaultConfig()
	cmd.AddFlags(c.Flags(), &defaults)
	c.Flags().StringVar(&account, "account", "", "account address")
	c.Flags().StringVar(&keysetHash, "keyset-hash", "", "initial keyset hash")
	c.Flags().StringVar(&implementation, "implementation", "", "initial implementation address")
	_ = c.MarkFlagRequired("account")
	_ = c.MarkFlagRequired("keyset-hash")
	return c
}

func applyMetaCommand() *cobra.Command {
	var (
		f     metaFlags
		proof string
	)
	c := &cobra.Command{
		Use:   "apply-meta <action>",
		Short: "apply a signed meta action to a persisted account",
		Long: `Applies a meta action to the account in the state store. The proof is the
hex encoded envelope signed over the digest printed by meta-digest. unlock
needs no proof.`,
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
			var raw []byte
			if proof != "" {
				if raw, err = hexutil.Decode(proof); err != nil {
					return fmt.Errorf("--proof: %w", err)
				}
			}
			return withStore(c, func(cfg *config.Config, logger *zap.Logger, db *store.Store) error {
				opts, err := controllerOpts(cfg, logger)
				if err != nil {
					return err
				}
				ctrl, err := controller.Load(addr, db, opts...)
				if err != nil {
					return err
				}
				receipt, err := ctrl.ApplyMeta(c.Context(), f.metaNonce, action, raw)
				if err != nil {
					return err
				}
				out := c.OutOrStdout()
				fmt.Fprintf(out, "digest\t%s\n", receipt.Digest.Hex())
				for _, event := range receipt.Events {
					fmt.Fprintf(out, "event\t%s\n", event.Name())
				}
				fmt.Fprintf(out, "meta-nonce\t%d\n", ctrl.State().MetaNonce)
				return nil
			})
		},
	}
	defaults := config.DefaultConfig()
	cmd.AddFlags(c.Flags(), &defaults)
	c.Flags().StringVar(&f.account, "account", "", "account address")
	c.Flags().Uint32Var(&f.metaNonce, "meta-nonce", 0, "current meta nonce of the account")
	c.Flags().StringVar(&f.keysetHash, "keyset-hash", "", "new keyset hash")
	c.Flags().DurationVar(&f.newLockDuring, "new-lock-during", 0, "new timelock delay")
	c.Flags().StringVar(&f.implementation, "implementation", "", "new implementation address")
	c.Flags().StringVar(&proof, "proof", "", "hex encoded proof envelope")
	_ = c.MarkFlagRequired("account")
	return c
}
