package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/ui"
	"github.com/taskdeck/taskdeck/models"
)

// logCmd renders the durable completion log. Unlike the in-session views,
// this reads the log file itself, so it shows work finished in earlier
// sessions too.
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the durable completion log",
	Long: `Show every finished task recorded in the completion log, including tasks
from earlier sessions. The completion log is the only task state that
survives a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := GetCompletionLog()
		if err != nil {
			return err
		}
		defer func() { _ = log.Close() }()

		records, err := log.Entries()
		if err != nil {
			return fmt.Errorf("failed to read completion log: %w", err)
		}

		if len(records) == 0 {
			cmd.Println("No finished tasks logged yet.")
			return nil
		}

		table := &ui.Table{
			Headers: []string{"ID", "Description", "Estimate (sec)", "Started", "Finished", "Actual (sec)"},
		}
		for _, rec := range records {
			table.Rows = append(table.Rows, []string{
				strconv.Itoa(rec.ID),
				rec.Description,
				strconv.Itoa(rec.EstimateSeconds),
				rec.StartedAt.Format(models.TimestampFormat),
				rec.FinishedAt.Format(models.TimestampFormat),
				strconv.FormatInt(rec.ActualSeconds, 10),
			})
		}
		cmd.Print(table.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
}
