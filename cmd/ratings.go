package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ratingsURLs []string

var ratingsCmd = &cobra.Command{
	Use:   "ratings <product>",
	Short: "Rate the product aspects reviewers discuss",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()
		if err := env.requireEngine(); err != nil {
			return err
		}

		product := args[0]
		bundle, err := env.Service.GetOrCreate(cmd.Context(), product, env.Builder.BundleBuilder(product, ratingsURLs))
		if err != nil {
			return err
		}
		ix, err := env.Builder.OpenIndex(bundle)
		if err != nil {
			return err
		}
		report, err := env.Engine.ComponentRatings(cmd.Context(), ix, product)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return nil
	},
}

func init() {
	ratingsCmd.Flags().StringArrayVar(&ratingsURLs, "url", nil, "explicit product URL (repeatable, skips discovery)")
	rootCmd.AddCommand(ratingsCmd)
}
