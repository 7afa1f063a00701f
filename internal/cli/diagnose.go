package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/neurosym-core/internal/orchestrator"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "diagnose [text]",
		Short: "Show rubric assessments and seed and content matches for a message",
		Args:  cobra.MinimumNArgs(1),
		Run:   runDiagnose,
	})
}

func runDiagnose(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	a, err := newApp(cfg, "diagnose")
	if err != nil {
		exitErr("start", err)
	}
	defer a.Close()

	d := a.orch.Diagnose(context.Background(), orchestrator.Request{Text: strings.Join(args, " ")})
	if jsonOut {
		printJSON(d)
		return
	}

	fmt.Printf("turn: %s (emotion %s)\n", d.Turn.Type, d.Turn.Emotion)
	fmt.Printf("risk: %.1f level=%s alert=%v interventions=%d\n\n",
		d.Profile.OverallRisk, d.Profile.Level, d.Profile.Alert, len(d.Profile.Interventions))

	fmt.Printf("%-22s  %-9s  %6s  %6s  %s\n", "Rubric", "Category", "Risk", "Prot", "Matched")
	for _, as := range d.Assessments {
		fmt.Printf("%-22s  %-9s  %6.1f  %6.1f  %s\n",
			as.RubricID, as.Category, as.RiskScore, as.ProtectiveScore, strings.Join(as.MatchedPhrases(), ", "))
	}

	fmt.Printf("\n%-26s  %-18s  %6s  %5s  %s\n", "Seed", "Label", "Score", "Conf", "Triggers")
	for _, m := range d.SymbolicMatches {
		fmt.Printf("%-26s  %-18s  %6.1f  %5.2f  %s\n",
			m.Seed.ID, m.Seed.Label, m.Score, m.Confidence, strings.Join(m.MatchedTriggers, ", "))
	}

	fmt.Printf("\n%-26s  %-20s  %5s  %5s\n", "Content", "Type", "Rel", "Fit")
	for _, m := range d.NeuralMatches {
		fmt.Printf("%-26s  %-20s  %5.2f  %5.2f\n",
			m.Similarity.ContentID, m.Similarity.ContentType, m.RelevanceScore, m.ContextualFit)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		exitErr("encode", err)
	}
}
