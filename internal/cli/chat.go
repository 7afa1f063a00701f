package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/neurosym-core/internal/orchestrator"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "chat",
		Short: "Interactive session on stdin",
		Run:   runChat,
	})
}

func runChat(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	a, err := newApp(cfg, "chat")
	if err != nil {
		exitErr("start", err)
	}
	defer a.Close()

	fmt.Println("neurosym ready.")
	fmt.Printf("  DB: %s | Codec: %s | Strictness: %s\n", cfg.DBPath, cfg.CodecAddr, cfg.Strictness)
	fmt.Println("Type a message (or 'quit' to exit):")

	conv := orchestrator.NewConversation()
	scanner := bufio.NewScanner(os.Stdin)
	turnNum := 0

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "quit" || text == "exit" {
			break
		}
		turnNum++

		res := a.orch.Process(context.Background(), orchestrator.Request{Text: text, Conversation: conv})
		fmt.Printf("\n%s\n\n", res.Text)

		status := "approved"
		if res.Fallback {
			status = "fallback"
		}
		fmt.Printf("[turn-%d] %s type=%s fusion=%s context=%s risk=%.0f\n",
			turnNum, status, res.Decision.ResponseType, res.Fusion.Strategy, res.Fusion.ContextType, res.Profile.OverallRisk)
		for _, v := range res.Constraint.Violations {
			fmt.Printf("  ! %s\n", v)
		}
	}
}
