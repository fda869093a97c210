package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <product>",
	Short: "Write a cached product's reviews to a CSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		product := args[0]
		bundle, err := env.Service.Get(cmd.Context(), product)
		if err != nil {
			return err
		}

		exp := export.New(cfg.Export.Dir)
		var path string
		switch exportFormat {
		case "xlsx":
			path, err = exp.XLSX(product, bundle.Reviews)
		case "csv":
			path, err = exp.CSV(product, bundle.Reviews)
		default:
			return fmt.Errorf("unknown format %q, want csv or xlsx", exportFormat)
		}
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	rootCmd.AddCommand(exportCmd)
}
