package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/league-scheduler-api/internal/app"
	"github.com/noah-isme/league-scheduler-api/internal/dto"
	"github.com/noah-isme/league-scheduler-api/internal/models"
)

func newAutoBuildCmd() *cobra.Command {
	var source, target string

	cmd := &cobra.Command{
		Use:   "autobuild",
		Short: "Copy last season's schedule pattern onto a new season",
	}
	cmd.PersistentFlags().StringVar(&source, "source", "", "Source job (season) id")
	cmd.PersistentFlags().StringVar(&target, "target", "", "Target job (season) id")

	analyzeCmd := &cobra.Command{
		Use:          "analyze",
		Short:        "Match divisions and report pattern feasibility",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				analysis, err := a.AutoBuild.Analyze(cmd.Context(), dto.AnalyzeRequest{SourceJobID: source, TargetJobID: target})
				if err != nil {
					return err
				}
				return printJSON(analysis)
			})
		},
	}

	var includeBrackets bool
	var strategies []string
	runCmd := &cobra.Command{
		Use:          "run",
		Short:        "Schedule every matched division of the target season",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseStrategies(strategies)
			if err != nil {
				return err
			}
			req := dto.ExecuteRequest{SourceJobID: source, TargetJobID: target, Strategies: overrides}
			if cmd.Flags().Changed("include-brackets") {
				req.IncludeBracketGames = &includeBrackets
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				result, err := a.AutoBuild.Execute(cmd.Context(), req)
				if result != nil {
					if printErr := printJSON(result); printErr != nil {
						return printErr
					}
				}
				return err
			})
		},
	}
	runCmd.Flags().BoolVar(&includeBrackets, "include-brackets", false, "Also replay bracket games")
	runCmd.Flags().StringSliceVar(&strategies, "strategy", nil, "Per-division override as <divisionId>=<pattern|auto|skip>")

	undoCmd := &cobra.Command{
		Use:          "undo <jobId>",
		Short:        "Delete every game of a season",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				result, err := a.AutoBuild.Undo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(result)
			})
		},
	}

	cmd.AddCommand(analyzeCmd, runCmd, undoCmd)
	return cmd
}

func parseStrategies(raw []string) (map[string]models.BuildStrategy, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]models.BuildStrategy, len(raw))
	for _, item := range raw {
		division, strategy, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(division) == "" {
			return nil, fmt.Errorf("strategy %q must look like <divisionId>=<pattern|auto|skip>", item)
		}
		s := models.BuildStrategy(strings.ToLower(strings.TrimSpace(strategy)))
		switch s {
		case models.StrategyPattern, models.StrategyAuto, models.StrategySkip:
		default:
			return nil, fmt.Errorf("unknown strategy %q for division %s", strategy, division)
		}
		out[strings.TrimSpace(division)] = s
	}
	return out, nil
}
