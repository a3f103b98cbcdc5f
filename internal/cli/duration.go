package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"worktracker.service/internal/core/duration"
)

func NewDurationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duration",
		Short: "Convert between estimate text and minutes",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "parse TEXT",
			Short: `Print the minutes in an estimate such as "1h 30m"`,
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), duration.ParseMinutes(args[0]))
			},
		},
		&cobra.Command{
			Use:   "format MINUTES",
			Short: "Print minutes as hour/minute text",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				minutes, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("minutes must be an integer: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), duration.FormatMinutes(minutes))
				return nil
			},
		},
	)
	return cmd
}
