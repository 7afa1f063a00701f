package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/neurosym-core/internal/store"
)

func init() {
	seedsCmd := &cobra.Command{
		Use:   "seeds",
		Short: "Manage the seed catalogue",
	}
	seedsCmd.AddCommand(&cobra.Command{
		Use:   "import [file.yaml]",
		Short: "Insert or update seeds from a YAML file",
		Args:  cobra.ExactArgs(1),
		Run:   runSeedsImport,
	})
	seedsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List active seeds",
		Run:   runSeedsList,
	})
	seedsCmd.AddCommand(&cobra.Command{
		Use:   "deactivate [id]",
		Short: "Deactivate a seed",
		Args:  cobra.ExactArgs(1),
		Run:   runSeedsDeactivate,
	})
	RootCmd.AddCommand(seedsCmd)
}

func openStore() *store.Store {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		exitErr("open db", err)
	}
	return st
}

func runSeedsImport(cmd *cobra.Command, args []string) {
	st := openStore()
	defer st.Close()

	n, err := importSeeds(st, args[0])
	if err != nil {
		exitErr("import", err)
	}
	fmt.Printf("imported %d seeds from %s\n", n, args[0])
}

func runSeedsList(cmd *cobra.Command, args []string) {
	st := openStore()
	defer st.Close()

	seeds, err := st.ActiveSeeds()
	if err != nil {
		exitErr("list", err)
	}
	if jsonOut {
		printJSON(seeds)
		return
	}
	fmt.Printf("%-26s  %-18s  %-8s  %5s  %s\n", "ID", "Label", "Severity", "Uses", "Triggers")
	for _, s := range seeds {
		fmt.Printf("%-26s  %-18s  %-8s  %5d  %v\n", s.ID, s.Label, s.Severity, s.UsageCount, s.Triggers)
	}
}

func runSeedsDeactivate(cmd *cobra.Command, args []string) {
	st := openStore()
	defer st.Close()

	if err := st.Deactivate(args[0]); err != nil {
		exitErr("deactivate", err)
	}
	fmt.Printf("deactivated %s\n", args[0])
}
