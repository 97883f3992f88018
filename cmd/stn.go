package main

import (
	"github.com/spf13/cobra"
)

var stnCmd = &cobra.Command{
	Use:   "stn",
	Short: "USGS Short-Term Network flood event data",
}

func init() {
	rootCmd.AddCommand(stnCmd)
}
