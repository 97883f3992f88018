package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/waterscope/floodwatch/internal/export"
	"github.com/waterscope/floodwatch/pkg/stn"
)

var stnDictionaryCmd = &cobra.Command{
	Use:   "dictionary <data-type>",
	Short: "Fetch the data dictionary for a data type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("fetch"); err != nil {
			return err
		}

		dt, err := stn.ParseDataType(args[0])
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		client, cleanup, err := newSTNClient()
		if err != nil {
			return err
		}
		defer cleanup()

		entries, err := client.DataDictionary(ctx, dt)
		if err != nil {
			return err
		}

		switch format {
		case "table":
			for _, e := range entries {
				fmt.Printf("%-30s %s\n", e.Field, e.Definition)
			}
			return nil
		case "csv":
			out, err := openOutput(outPath)
			if err != nil {
				return err
			}
			defer closeOutput(out)
			return export.WriteDictionaryCSV(out, entries)
		case "xlsx":
			if outPath == "" {
				return eris.New("--format xlsx requires --out")
			}
			return export.WriteDictionaryXLSX(outPath, dt.String(), entries)
		default:
			return eris.Errorf("unknown format %q, expected table, csv, or xlsx", format)
		}
	},
}

func init() {
	stnDictionaryCmd.Flags().String("format", "table", "output format: table, csv, xlsx")
	stnDictionaryCmd.Flags().String("out", "", "output file (default: stdout)")
	stnCmd.AddCommand(stnDictionaryCmd)
}
