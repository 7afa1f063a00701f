package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/neurosym-core/internal/logging"
)

func init() {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show recent decisions from the provenance log",
		Run:   runInspect,
	}
	cmd.Flags().IntP("last", "n", 20, "Show N most recent runs")
	cmd.Flags().String("run", "", "Show the full record of one run id")
	RootCmd.AddCommand(cmd)
}

type inspectRow struct {
	RunID        string   `json:"run_id"`
	CreatedAt    string   `json:"created_at"`
	Trigger      string   `json:"trigger"`
	Decision     string   `json:"decision"`
	Reason       string   `json:"reason,omitempty"`
	ResponseType string   `json:"response_type"`
	Fusion       string   `json:"fusion"`
	Crisis       int      `json:"crisis"`
	Distress     int      `json:"distress"`
	Violations   []string `json:"violations,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) {
	last, _ := cmd.Flags().GetInt("last")
	runID, _ := cmd.Flags().GetString("run")

	st := openStore()
	defer st.Close()

	rows, err := st.RecentProvenance(last)
	if err != nil {
		exitErr("read provenance", err)
	}

	if runID != "" {
		for _, r := range rows {
			if r.RunID == runID {
				var rec logging.DecisionRecord
				if err := json.Unmarshal([]byte(r.SignalsJSON), &rec); err != nil {
					exitErr("parse record", err)
				}
				printJSON(rec)
				return
			}
		}
		exitErr("inspect", fmt.Errorf("run %s not among the last %d runs", runID, last))
	}

	// store returns newest first, print chronologically
	out := make([]inspectRow, len(rows))
	for i, r := range rows {
		row := inspectRow{
			RunID:     r.RunID,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
			Trigger:   r.TriggerType,
			Decision:  r.Decision,
			Reason:    r.Reason,
		}
		var rec logging.DecisionRecord
		if json.Unmarshal([]byte(r.SignalsJSON), &rec) == nil {
			row.ResponseType = rec.ResponseType
			row.Fusion = rec.FusionStrategy
			row.Crisis = rec.Crisis
			row.Distress = rec.Distress
			row.Violations = rec.Violations
		}
		out[len(rows)-1-i] = row
	}

	if jsonOut {
		printJSON(out)
		return
	}
	if len(out) == 0 {
		fmt.Println("no runs found")
		return
	}
	fmt.Printf("%-36s  %-8s  %-9s  %-10s  %-18s  %6s  %8s  %s\n",
		"Run", "Trigger", "Decision", "Type", "Fusion", "Crisis", "Distress", "Time")
	for _, r := range out {
		fmt.Printf("%-36s  %-8s  %-9s  %-10s  %-18s  %6d  %8d  %s\n",
			r.RunID, r.Trigger, r.Decision, r.ResponseType, r.Fusion, r.Crisis, r.Distress, r.CreatedAt)
		for _, v := range r.Violations {
			fmt.Printf("  ! %s\n", v)
		}
	}
}
