// keysetctl inspects keysets, builds meta action digests and reads persisted
// account states.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-smartaccount/cmd"
)

var (
	version string
	commit  string
	branch  string
)

func main() {
	cmd.Version = version
	cmd.Commit = commit
	cmd.Branch = branch
	if err := rootCommand(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand(fs afero.Fs) *cobra.Command {
	root := &cobra.Command{
		Use:          "keysetctl",
		Short:        "keyset governed account tooling",
		SilenceUsage: true,
	}
	root.AddCommand(
		hashCommand(fs),
		metaDigestCommand(),
		stateCommand(),
		createCommand(),
		applyMetaCommand(),
		accountsCommand(),
		versionCommand(),
	)
	return root
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the build version",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintf(c.OutOrStdout(), "%s+%s+%s\n", cmd.Version, cmd.Commit, cmd.Branch)
		},
	}
}
