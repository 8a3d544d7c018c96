package command

import (
	"sprinkler-jobs/internal/domain"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type List struct {
	Env *Env
}

func (cmd List) Command() *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:       "list [active|waiting|all]",
		Short:     "list jobs known to the job service",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.ListActive), string(domain.ListWaiting), "all"},
		RunE: func(c *cobra.Command, args []string) error {
			which := "all"
			if len(args) == 1 {
				which = args[0]
			}
			return cmd.main(c, which, output)
		},
	}
	c.Flags().StringVarP(&output, "output", "o", OutputTable, "output format: table, json or yaml")
	return c
}

func (cmd List) main(c *cobra.Command, which, output string) error {
	if err := checkOutput(output); err != nil {
		return err
	}

	var (
		jobs []domain.Job
		err  error
	)
	if which == "all" {
		jobs, err = cmd.Env.Gateway.ListAll(c.Context())
	} else {
		kind, perr := domain.ParseListKind(which)
		if perr != nil {
			return errors.Wrap(perr, "list")
		}
		jobs, err = cmd.Env.Gateway.List(c.Context(), kind)
	}
	if err != nil {
		return errors.Wrapf(err, "list : failed to fetch %s jobs", which)
	}

	return renderJobs(c.OutOrStdout(), output, jobs)
}
