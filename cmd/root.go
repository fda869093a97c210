package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "reviewctl",
	Short: "Product review acquisition and question answering",
	Long:  "Scrapes product reviews from listing pages, indexes them for semantic retrieval, and answers questions grounded on what buyers actually wrote.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
