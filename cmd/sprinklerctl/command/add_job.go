package command

import (
	"fmt"
	"strconv"

	"sprinkler-jobs/internal/domain"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type AddJob struct {
	Env *Env
}

func (cmd AddJob) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "add-job SPRINKLER_ID DURATION",
		Short: "submit an irrigation job",
		Long:  "Submit a job that runs SPRINKLER_ID for DURATION seconds. The job is created with normal priority.",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.main(c, args[0], args[1])
		},
	}
}

func (cmd AddJob) main(c *cobra.Command, sprinklerID, durationText string) error {
	seconds, err := strconv.Atoi(durationText)
	if err != nil {
		return errors.Wrapf(err, "add-job : invalid duration %q", durationText)
	}

	receipt, err := cmd.Env.Gateway.Submit(c.Context(), domain.NewJob(sprinklerID, domain.Seconds(seconds)))
	if err != nil {
		return errors.Wrap(err, "add-job : failed to submit job")
	}

	if receipt.JobID == 0 {
		fmt.Fprintln(c.OutOrStdout(), "added job, the service returned no job id")
		return nil
	}
	fmt.Fprintf(c.OutOrStdout(), "added job with id %d\n", receipt.JobID)
	return nil
}
