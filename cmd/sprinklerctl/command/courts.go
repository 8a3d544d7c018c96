package command

import (
	"fmt"
	"strconv"

	"sprinkler-jobs/internal/domain"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type Courts struct {
	Env *Env
}

func (cmd Courts) Command() *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "courts",
		Short: "show what every court's sprinkler is doing",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return cmd.list(c, output)
		},
	}
	c.Flags().StringVarP(&output, "output", "o", OutputTable, "output format: table, json or yaml")

	c.AddCommand(&cobra.Command{
		Use:   "set SPRINKLER_ID DURATION",
		Short: "run a court's sprinkler for DURATION seconds",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.set(c, args[0], args[1])
		},
	})
	return c
}

func (cmd Courts) list(c *cobra.Command, output string) error {
	if err := checkOutput(output); err != nil {
		return err
	}
	courts, err := cmd.Env.Gateway.ListCourts(c.Context())
	if err != nil {
		return errors.Wrap(err, "courts : failed to fetch courts")
	}
	return renderCourts(c.OutOrStdout(), output, courts)
}

func (cmd Courts) set(c *cobra.Command, sprinklerID, durationText string) error {
	seconds, err := strconv.Atoi(durationText)
	if err != nil {
		return errors.Wrapf(err, "courts set : invalid duration %q", durationText)
	}
	if err := cmd.Env.Gateway.SetCourtDuration(c.Context(), sprinklerID, domain.Seconds(seconds)); err != nil {
		return errors.Wrapf(err, "courts set : failed to update %s", sprinklerID)
	}
	fmt.Fprintf(c.OutOrStdout(), "%s set to %d seconds\n", sprinklerID, seconds)
	return nil
}
