package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/waterscope/floodwatch/internal/store"
	"github.com/waterscope/floodwatch/pkg/stn"
)

var stnSyncCmd = &cobra.Command{
	Use:   "sync <data-type>",
	Short: "Fetch flood event records and persist them to Postgres",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("sync"); err != nil {
			return err
		}

		dt, err := stn.ParseDataType(args[0])
		if err != nil {
			return err
		}

		flagParams, _ := cmd.Flags().GetStringArray("param")
		params, err := parseKVParams(flagParams)
		if err != nil {
			return err
		}

		pool, err := store.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}

		client, cleanup, err := newSTNClient()
		if err != nil {
			return err
		}
		defer cleanup()

		var ds *stn.Dataset
		if len(params) == 0 {
			ds, err = client.GetAllData(ctx, dt, 0)
		} else {
			ds, err = client.GetFilteredData(ctx, dt, params, 0)
		}
		if err != nil {
			return err
		}

		saved, err := pg.SaveRecords(ctx, dt, ds.Records)
		if err != nil {
			return err
		}

		zap.L().Info("sync complete",
			zap.String("data_type", dt.String()),
			zap.Int64("saved", saved),
		)
		fmt.Printf("Saved %d %s records\n", saved, dt)
		return nil
	},
}

func init() {
	stnSyncCmd.Flags().StringArray("param", nil, "query filter key=value (repeatable)")
	stnCmd.AddCommand(stnSyncCmd)
}
