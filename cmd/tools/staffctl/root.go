package main

import (
	"staffing-workers/internal/common/logger"

	"github.com/spf13/cobra"
)

type options struct {
	logLevel string
}

func (o *options) logger() logger.Logger {
	return logger.NewStructured(o.logLevel, "console")
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "staffctl",
		Short:         "Rank candidates, propose teams and maintain the registry and cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newRankCmd(opts),
		newProposeCmd(opts),
		newRegistryCmd(),
		newCacheCmd(opts),
	)

	return root
}
