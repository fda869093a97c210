package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askURLs []string

var askCmd = &cobra.Command{
	Use:   "ask <product> <question...>",
	Short: "Answer a question from a product's reviews",
	Args:  cobra.MinimumNArgs(2),
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
		question := strings.Join(args[1:], " ")

		bundle, err := env.Service.GetOrCreate(cmd.Context(), product, env.Builder.BundleBuilder(product, askURLs))
		if err != nil {
			return err
		}
		ix, err := env.Builder.OpenIndex(bundle)
		if err != nil {
			return err
		}
		answer, err := env.Engine.Answer(cmd.Context(), ix, product, question)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	},
}

func init() {
	askCmd.Flags().StringArrayVar(&askURLs, "url", nil, "explicit product URL (repeatable, skips discovery)")
	rootCmd.AddCommand(askCmd)
}
