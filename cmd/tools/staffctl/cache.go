package main

import (
	"fmt"

	"staffing-workers/internal/common/config"
	"staffing-workers/internal/common/database"
	"staffing-workers/internal/staffing/store"

	"github.com/spf13/cobra"
)

func newCacheCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the employee and project read cache",
	}
	cmd.AddCommand(newCacheInvalidateCmd(opts))
	return cmd
}

func newCacheInvalidateCmd(opts *options) *cobra.Command {
	var (
		redisCfg  config.RedisConfig
		projectID string
	)

	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Drop the cached employee pool and, with --project, one cached project",
		RunE: func(cmd *cobra.Command, args []string) error {
			rdb, err := database.NewRedis(redisCfg)
			if err != nil {
				return err
			}
			defer rdb.Close()

			ctx := cmd.Context()
			if err := rdb.Ping(ctx); err != nil {
				return err
			}

			s := store.New(nil, rdb.GetClient(), store.Config{}, opts.logger())
			if err := s.Invalidate(ctx, projectID); err != nil {
				return err
			}

			if projectID == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Invalidated cached employee pool")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Invalidated cached employee pool and project %s\n", projectID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&redisCfg.Address, "redis-address", "localhost:6379", "Redis address")
	cmd.Flags().StringVar(&redisCfg.Password, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&redisCfg.DB, "redis-db", 0, "Redis database")
	cmd.Flags().StringVar(&projectID, "project", "", "Project ID whose cached record is also dropped")
	return cmd
}
