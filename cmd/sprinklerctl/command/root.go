package command

import "github.com/spf13/cobra"

// NewRootCommand builds the sprinklerctl command tree around env.
func NewRootCommand(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:                "sprinklerctl",
		Short:              "Manage sprinkler irrigation jobs",
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  env.Init,
		PersistentPostRunE: env.Close,
	}
	env.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		AddJob{Env: env}.Command(),
		List{Env: env}.Command(),
		Remove{Env: env}.Command(),
		Courts{Env: env}.Command(),
		Serve{Env: env}.Command(),
		Snapshot{Env: env}.Command(),
	)
	return root
}
