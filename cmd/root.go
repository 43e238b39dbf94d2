// Package cmd provides the command-line interface for the block DMA
// simulator.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "blockdma",
	Short: "blockdma simulates a block-oriented DMA engine.",
	Long: `blockdma simulates a block-oriented DMA engine that copies ` +
		`fixed-size blocks between two memories through a staging FIFO. ` +
		`The engine is programmed through a memory-mapped register file ` +
		`and can be monitored while the simulation runs.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A .env file can override monitoring and recording settings.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
