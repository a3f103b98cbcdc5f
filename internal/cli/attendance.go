package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"worktracker.service/internal/core"
)

func NewAttendanceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Inspect attendance records",
	}

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent attendance records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(); err != nil {
				return err
			}
			svc, err := app.attendance()
			if err != nil {
				return err
			}
			records, err := svc.ListRecent(context.Background(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No attendance records found.")
				return nil
			}

			loc := svc.Location()
			for _, r := range records {
				in, outAt := "-", "-"
				if r.CheckInTime != nil {
					in = r.CheckInTime.In(loc).Format("15:04")
				}
				if r.CheckOutTime != nil {
					outAt = r.CheckOutTime.In(loc).Format("15:04")
				}

				flags := ""
				if r.IsLateCheckIn {
					flags += " late"
				}
				if r.IsEarlyCheckOut {
					flags += " early"
				}
				fmt.Fprintf(out, "%s | %-12s | in %s | out %s |%s (%s)\n",
					r.Date.Format("2006-01-02"), r.WorkerName, in, outAt, flags,
					humanize.Time(r.UpdatedAt))
			}
			return nil
		},
	}
	recent.Flags().IntVar(&limit, "limit", core.DefaultRecentAttendance, "Number of records to show")

	cmd.AddCommand(recent)
	return cmd
}
