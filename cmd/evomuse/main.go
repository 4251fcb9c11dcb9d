package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evomuse",
	Short: "Evolutionary prompt search for generative music",
	Long: `evomuse evolves populations of music-generation prompts against a
fitness signal. Text modes step the population through an LLM oracle
(full regeneration or a genetic operator pipeline); continuous mode
evolves embedding vectors with a generational GA.

Real deployments bind a music model and scorer through the library API.
The CLI ships a deterministic surrogate fitness so configurations can be
dry-run end to end without one.`,
	Version: "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
