package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waterscope/floodwatch/pkg/nfhl"
)

var nfhlCmd = &cobra.Command{
	Use:   "nfhl",
	Short: "FEMA National Flood Hazard Layer map services",
}

var nfhlLayersCmd = &cobra.Command{
	Use:   "layers [service]",
	Short: "List services, or the layers of one service",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, s := range nfhl.Services() {
				fmt.Println(s)
			}
			return nil
		}

		s, err := nfhl.ParseService(args[0])
		if err != nil {
			return err
		}
		for _, layer := range nfhl.Layers(s) {
			fmt.Println(layer)
		}
		return nil
	},
}

func init() {
	nfhlCmd.AddCommand(nfhlLayersCmd)
	rootCmd.AddCommand(nfhlCmd)
}
