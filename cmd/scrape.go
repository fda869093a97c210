package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	scrapeURLs    []string
	scrapeRefresh bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <product> [product...]",
	Short: "Scrape and index reviews for one or more products",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(scrapeURLs) > 0 && len(args) > 1 {
			return fmt.Errorf("--url applies to a single product")
		}

		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(2)
		for _, product := range args {
			g.Go(func() error {
				build := env.Builder.BundleBuilder(product, scrapeURLs)
				var err error
				if scrapeRefresh {
					_, err = env.Service.Refresh(ctx, product, build)
				} else {
					_, err = env.Service.GetOrCreate(ctx, product, build)
				}
				if err != nil {
					zap.L().Error("scrape failed", zap.String("product", product), zap.Error(err))
					return err
				}
				fmt.Printf("indexed %s\n", product)
				return nil
			})
		}
		return g.Wait()
	},
}

func init() {
	scrapeCmd.Flags().StringArrayVar(&scrapeURLs, "url", nil, "explicit product URL (repeatable, skips discovery)")
	scrapeCmd.Flags().BoolVar(&scrapeRefresh, "refresh", false, "rebuild even if a cached bundle exists")
	rootCmd.AddCommand(scrapeCmd)
}
