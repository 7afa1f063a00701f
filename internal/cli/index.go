package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/neurosym-core/internal/codec"
	"github.com/danielpatrickdp/neurosym-core/internal/store"
)

const embedTimeout = 30 * time.Second

func init() {
	cmd := &cobra.Command{
		Use:   "index [text]",
		Short: "Embed a piece of content and add it to the similarity store",
		Args:  cobra.MinimumNArgs(1),
		Run:   runIndex,
	}
	cmd.Flags().String("id", "", "Content id (default: generated)")
	cmd.Flags().String("type", "therapeutic_response", "Content type")
	cmd.Flags().String("label", "", "Therapeutic label stored in the metadata")
	RootCmd.AddCommand(cmd)
}

func runIndex(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	contentType, _ := cmd.Flags().GetString("type")
	label, _ := cmd.Flags().GetString("label")
	text := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	client, err := codec.NewCodecClient(cfg.CodecAddr)
	if err != nil {
		exitErr("connect codec", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), embedTimeout)
	defer cancel()
	vec, err := client.Embed(ctx, text)
	if err != nil {
		exitErr("embed", err)
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		exitErr("open db", err)
	}
	defer st.Close()

	rec := store.ContentRecord{ID: id, ContentType: contentType, Text: text, Vector: vec}
	if label != "" {
		rec.Metadata = map[string]any{"label": label}
	}
	if err := st.IndexContent(rec); err != nil {
		exitErr("index", err)
	}
	fmt.Printf("indexed %d-dim vector (%s)\n", len(vec), contentType)
}
