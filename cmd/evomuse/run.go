package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evomuse/evomuse/pkg/config"
	"github.com/evomuse/evomuse/pkg/core"
)

var (
	runConfigPath  string
	runMode        string
	runGenerations int
	runArchivePath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an evolutionary search with the surrogate fitness",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(runConfigPath)
		if err != nil {
			return err
		}
		if runMode != "" {
			cfg.Mode = runMode
		}
		if runGenerations > 0 {
			cfg.Generations = runGenerations
		}
		if runArchivePath != "" {
			cfg.Archive.Enabled = true
			cfg.Archive.Path = runArchivePath
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.SetupLogging(cfg.Logging); err != nil {
			return err
		}

		rt, err := config.Build(cfg, &surrogateGenerator{}, &surrogateScorer{})
		if err != nil {
			return err
		}
		defer rt.Close()

		result, err := rt.Evolver.Run(cmd.Context(), cfg.Generations)
		if err != nil {
			return err
		}

		fmt.Printf("run %s finished after %d generations\n", result.RunID, cfg.Generations)
		if result.Best.Solution.Representation() == core.RepresentationText {
			fmt.Printf("best prompt: %s\n", result.Best.Solution.Text())
		} else {
			fmt.Printf("best vector: %s\n", result.Best.Solution.String())
		}
		fmt.Printf("best fitness: %.4f\n", result.Best.Fitness)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "YAML configuration file")
	runCmd.Flags().StringVarP(&runMode, "mode", "m", "", "override stepping mode (full-regeneration, operator-pipeline, continuous)")
	runCmd.Flags().IntVarP(&runGenerations, "generations", "g", 0, "override generation count")
	runCmd.Flags().StringVar(&runArchivePath, "archive", "", "enable run archiving to this SQLite file")
	rootCmd.AddCommand(runCmd)
}
