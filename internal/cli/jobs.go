package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"worktracker.service/internal/core"
	"worktracker.service/internal/core/duration"
	"worktracker.service/internal/core/model"
)

func NewJobsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and reorder jobs",
	}
	cmd.AddCommand(newJobsListCmd(app), newJobsReorderCmd(app))
	return cmd
}

func newJobsListCmd(app *App) *cobra.Command {
	var filter struct {
		status, category, day string
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(); err != nil {
				return err
			}
			jobs, err := app.jobs().List(context.Background(), core.JobListFilter{
				Status:   model.JobStatus(filter.status),
				Category: model.Category(filter.category),
				Day:      filter.day,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No jobs found.")
				return nil
			}
			printJobs(out, jobs)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.status, "status", "", "Filter by status (pending,in_progress,completed)")
	cmd.Flags().StringVar(&filter.category, "category", "", "Filter by category (active,later)")
	cmd.Flags().StringVar(&filter.day, "day", "", "Only jobs available on this weekday (e.g. monday)")
	return cmd
}

func newJobsReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder MOVED_ID OVER_ID",
		Short: "Move a job onto another job's position and re-rank its category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(); err != nil {
				return err
			}
			res, err := app.jobs().Reorder(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.Applied {
				fmt.Fprintln(out, "Nothing to reorder.")
				return nil
			}
			printJobs(out, res.Jobs)
			return nil
		},
	}
}

func printJobs(out io.Writer, jobs []model.Job) {
	for _, j := range jobs {
		fmt.Fprintf(out, "%2d | %s | %-8s | %-11s | %-7s | %-30s | updated %s\n",
			j.DisplayOrder, j.ID, j.Priority, j.Status, duration.FormatMinutes(j.EstimatedTime),
			j.Title, humanize.Time(j.UpdatedAt))
	}
}
