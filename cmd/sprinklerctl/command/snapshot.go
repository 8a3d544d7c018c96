package command

import (
	"fmt"
	"time"

	"sprinkler-jobs/internal/domain"
	"sprinkler-jobs/internal/infra/etcd"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type Snapshot struct {
	Env *Env
}

func (cmd Snapshot) Command() *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "snapshot {active|waiting}",
		Short: "show the job list last published by a console",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.main(c, args[0], output)
		},
	}
	c.Flags().StringVarP(&output, "output", "o", OutputTable, "output format: table, json or yaml")
	c.Flags().StringSlice("etcd-endpoints", nil, "etcd endpoints the snapshots are published to")
	return c
}

func (cmd Snapshot) main(c *cobra.Command, list, output string) error {
	if err := checkOutput(output); err != nil {
		return err
	}
	kind, err := domain.ParseListKind(list)
	if err != nil {
		return errors.Wrap(err, "snapshot")
	}

	cfg := cmd.Env.Config
	if len(cfg.EtcdEndpoints) == 0 {
		return errors.New("snapshot : no etcd endpoints configured")
	}
	etcdClient, err := etcd.NewClient(cfg.EtcdEndpoints, cfg.EtcdTimeout)
	if err != nil {
		return errors.Wrap(err, "snapshot : failed to create etcd client")
	}
	defer etcdClient.Close()

	snap, err := etcd.NewEtcdSnapshotStore(etcdClient, cmd.Env.Logger).Get(c.Context(), kind)
	if err != nil {
		return errors.Wrapf(err, "snapshot : failed to read %s snapshot", kind)
	}

	if output != OutputTable {
		return renderJobs(c.OutOrStdout(), output, snap.Jobs)
	}
	fmt.Fprintf(c.OutOrStdout(), "%s jobs as of %s\n", snap.List, snap.TakenAt.Format(time.RFC3339))
	return renderJobs(c.OutOrStdout(), output, snap.Jobs)
}
