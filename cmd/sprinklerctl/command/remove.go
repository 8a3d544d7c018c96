package command

import (
	"fmt"

	"sprinkler-jobs/internal/domain"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type Remove struct {
	Env *Env
}

func (cmd Remove) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "remove {active|waiting} SPRINKLER_ID",
		Short: "remove the job of a sprinkler from a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.main(c, args[0], args[1])
		},
	}
}

func (cmd Remove) main(c *cobra.Command, list, sprinklerID string) error {
	kind, err := domain.ParseListKind(list)
	if err != nil {
		return errors.Wrap(err, "remove")
	}
	if err := cmd.Env.Gateway.Remove(c.Context(), kind, sprinklerID); err != nil {
		return errors.Wrapf(err, "remove : failed to remove %s from %s jobs", sprinklerID, kind)
	}
	fmt.Fprintf(c.OutOrStdout(), "removed %s from %s jobs\n", sprinklerID, kind)
	return nil
}
