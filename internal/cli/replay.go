package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/neurosym-core/internal/replay"
)

func init() {
	replayCmd := &cobra.Command{
		Use:   "replay [fixture.json]",
		Short: "Replay a JSON fixture offline and compare with its expectations",
		Args:  cobra.ExactArgs(1),
		Run:   runReplay,
	}
	exportCmd := &cobra.Command{
		Use:   "export [fixture.json]",
		Short: "Export recent runs and the active seeds as a replay fixture",
		Args:  cobra.ExactArgs(1),
		Run:   runReplayExport,
	}
	exportCmd.Flags().IntP("last", "n", 10, "Number of most recent runs to export")
	replayCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) {
	f, err := replay.LoadFixture(args[0])
	if err != nil {
		exitErr("load fixture", err)
	}
	rcfg := f.ToReplayConfig()
	if strictnessFlag != "" {
		rcfg.Strictness = rubricLevelFlag()
	}
	rcfg.Logger = zap.NewNop()

	results, err := replay.Replay(f.Interactions(), rcfg)
	if err != nil {
		exitErr("replay", err)
	}
	mismatches := replay.Check(results, f.ExpectedResults)

	if jsonOut {
		printJSON(struct {
			Results    []replay.ReplayResult `json:"results"`
			Summary    replay.ReplaySummary  `json:"summary"`
			Mismatches []string              `json:"mismatches"`
		}{results, replay.Summarize(results), mismatches})
	} else {
		printReplay(f.Description, results)
		for _, m := range mismatches {
			fmt.Printf("MISMATCH %s\n", m)
		}
	}
	if len(mismatches) > 0 {
		os.Exit(1)
	}
}

func printReplay(description string, results []replay.ReplayResult) {
	if description != "" {
		fmt.Printf("%s\n\n", description)
	}
	fmt.Printf("%-8s  %-9s  %-10s  %-18s  %5s  %s\n", "Turn", "Action", "Type", "Label", "Qual", "Violations")
	fmt.Printf("%-8s+-%-9s+-%-10s+-%-18s+-%5s+-%s\n", "--------", "---------", "----------", "------------------", "-----", "----------")
	for _, r := range results {
		fmt.Printf("%-8s  %-9s  %-10s  %-18s  %5.2f  %d\n",
			r.TurnID, r.Action, r.ResponseType, r.Label, r.Quality, len(r.Violations))
	}

	s := replay.Summarize(results)
	fmt.Printf("\nturns=%d approved=%d fallbacks=%d avg_quality=%.2f\n", s.TotalTurns, s.Approved, s.Fallbacks, s.AvgQuality)
	rules := make([]string, 0, len(s.Violations))
	for v := range s.Violations {
		rules = append(rules, v)
	}
	sort.Strings(rules)
	for _, v := range rules {
		fmt.Printf("  %3dx %s\n", s.Violations[v], v)
	}
}

func runReplayExport(cmd *cobra.Command, args []string) {
	last, _ := cmd.Flags().GetInt("last")

	st := openStore()
	defer st.Close()

	rows, err := st.RecentProvenance(last)
	if err != nil {
		exitErr("read provenance", err)
	}
	seeds, err := st.ActiveSeeds()
	if err != nil {
		exitErr("read seeds", err)
	}
	f, err := replay.BuildFixture(rows, seeds)
	if err != nil {
		exitErr("build fixture", err)
	}
	if err := replay.WriteFixture(f, args[0]); err != nil {
		exitErr("write fixture", err)
	}
	fmt.Printf("wrote %s (%d turns, %d seeds)\n", args[0], len(f.Turns), len(f.Seeds))
}
