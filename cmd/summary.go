package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryURLs []string

var summaryCmd = &cobra.Command{
	Use:   "summary <product>",
	Short: "Summarize what reviewers say about a product",
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
		bundle, err := env.Service.GetOrCreate(cmd.Context(), product, env.Builder.BundleBuilder(product, summaryURLs))
		if err != nil {
			return err
		}
		ix, err := env.Builder.OpenIndex(bundle)
		if err != nil {
			return err
		}
		summary, err := env.Engine.Summarize(cmd.Context(), ix, product)
		if err != nil {
			return err
		}
		fmt.Println(summary)
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringArrayVar(&summaryURLs, "url", nil, "explicit product URL (repeatable, skips discovery)")
	rootCmd.AddCommand(summaryCmd)
}
