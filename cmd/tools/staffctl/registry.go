package main

import (
	"fmt"

	"staffing-workers/pkg/registry"

	"github.com/spf13/cobra"
)

const defaultRegistryPath = "configs/activity-registry.json"

func newRegistryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and maintain the activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", defaultRegistryPath, "Path to registry file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate",
			Short: "Validate the registry file",
			RunE: func(cmd *cobra.Command, args []string) error {
				reg, err := registry.LoadRegistry(path)
				if err != nil {
					return fmt.Errorf("failed to load registry: %w", err)
				}
				if err := reg.Validate(); err != nil {
					return fmt.Errorf("registry validation failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
				return nil
			},
		},
		newRegistryUpdateCmd(&path),
	)

	return cmd
}

func newRegistryUpdateCmd(path *string) *cobra.Command {
	var id, field, value string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update one field of an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(*path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.UpdateField(id, field, value); err != nil {
				return err
			}
			if err := registry.SaveRegistry(reg, *path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Activity ID to update")
	cmd.Flags().StringVar(&field, "field", "", "Field to update (status, version, displayName, description, timeout, retries)")
	cmd.Flags().StringVar(&value, "value", "", "New value for the field")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
