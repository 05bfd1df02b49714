// Package cmd contains the canned network scenarios.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	genesisFile string
	waitTimeout int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Run canned network simulations",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&genesisFile, "genesis", "g", "zblock/genesis.json", "Path to the genesis file.")
	rootCmd.PersistentFlags().IntVarP(&waitTimeout, "timeout", "t", 30, "Seconds to wait for the network to settle.")
}
