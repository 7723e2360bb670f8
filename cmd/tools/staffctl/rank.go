package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"staffing-workers/internal/models"
	"staffing-workers/internal/staffing/ranking"
	"staffing-workers/internal/staffing/teambuilder"

	"github.com/spf13/cobra"
)

func newRankCmd(opts *options) *cobra.Command {
	var fixturePath, projectID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the candidates of every recruiting role of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := rankFixture(cmd.Context(), opts, fixturePath, projectID)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeRanking(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "YAML file with employees and projects")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id to rank")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the ranking as JSON")
	_ = cmd.MarkFlagRequired("fixture")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newProposeCmd(opts *options) *cobra.Command {
	var fixturePath, projectID string
	var ceiling int64
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Rank a project and propose three teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, f, err := rankFixture(cmd.Context(), opts, fixturePath, projectID)
			if err != nil {
				return err
			}
			if !result.Found() {
				return fmt.Errorf("%s: %s", projectID, result.Error)
			}

			gen := teambuilder.NewGenerator(opts.logger(), teambuilder.WithCombinationCeiling(ceiling))
			set, err := gen.Generate(cmd.Context(), teambuilder.Request{Roles: result.Roles, Recent: f.Recent})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), set)
			}
			return writeProposals(cmd.OutOrStdout(), set)
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "YAML file with employees and projects")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id to staff")
	cmd.Flags().Int64Var(&ceiling, "ceiling", teambuilder.DefaultCombinationCeiling, "Combination ceiling per strategy (0 disables)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the proposals as JSON")
	_ = cmd.MarkFlagRequired("fixture")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func rankFixture(ctx context.Context, opts *options, path, projectID string) (*models.RankingResult, *fixture, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := loadFixture(path)
	if err != nil {
		return nil, nil, err
	}
	orchestrator := ranking.NewOrchestrator(f.repository(), opts.logger(), nil)
	result, err := orchestrator.RankRoles(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return result, f, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRanking(w io.Writer, result *models.RankingResult) error {
	if !result.Found() {
		_, err := fmt.Fprintf(w, "%s: %s\n", result.ProjectInfo.ProjectID, result.Error)
		return err
	}

	fmt.Fprintf(w, "%s %s (%s), %d positions\n\n",
		result.ProjectInfo.ProjectID, result.ProjectInfo.ProjectName, result.ProjectInfo.Category, result.ProjectInfo.TotalPositions)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, role := range result.Roles {
		fmt.Fprintf(tw, "%s\trequired %d\t%d candidates\n", role.Role, role.RequiredCount, role.TotalCandidates)
		if role.Message != "" {
			fmt.Fprintf(tw, "\t%s\n", role.Message)
		}
		for _, c := range role.Candidates {
			fmt.Fprintf(tw, "\t%d\t%s\t%.3f\t%s\t%s\n", c.Rank, c.EmployeeName, c.FinalScore, c.Grade, c.PersonalityType)
		}
	}
	return tw.Flush()
}

func writeProposals(w io.Writer, set *models.ProposalSet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range set.All() {
		if !p.Found {
			fmt.Fprintf(tw, "%s\tno team\t(%s, %d evaluated)\n", p.Strategy, p.SearchMode, p.CombinationsEvaluated)
			continue
		}
		members := make([]string, 0, len(p.Members))
		for _, m := range p.Members {
			members = append(members, fmt.Sprintf("%s/%s", m.EmployeeName, m.Role))
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%s\n", p.Strategy, p.Score, strings.Join(members, ", "))
	}
	return tw.Flush()
}
