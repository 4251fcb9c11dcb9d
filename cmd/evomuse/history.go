package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evomuse/evomuse/pkg/archive"
)

var historyArchivePath string

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List archived runs, or a run's per-generation progression",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.Open(historyArchivePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			records, err := store.Generations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("no generations recorded for this run")
				return nil
			}
			for _, rec := range records {
				fmt.Printf("gen %3d  %.4f  %s\n", rec.Generation, rec.BestScore, rec.BestSolution)
			}
			return nil
		}

		runs, err := store.Runs(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no archived runs")
			return nil
		}
		for _, r := range runs {
			state := "running"
			if r.Finished {
				state = "finished"
			}
			fmt.Printf("%s  %-18s %-8s started %s\n",
				r.ID, r.Mode, state, r.StartedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyArchivePath, "archive", "evomuse.db", "SQLite archive file")
	rootCmd.AddCommand(historyCmd)
}
