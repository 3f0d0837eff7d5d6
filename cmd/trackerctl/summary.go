package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"time-tracking-bot/internal/model"
	"time-tracking-bot/internal/task"
	"time-tracking-bot/pkg/datemath"
)

var summaryDateLayouts = []string{"2006-01-02", "02.01.2006"}

func summaryCmd(flags *rootFlags) *cobra.Command {
	var (
		userID int64
		date   string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a user's daily summary",
		Example: `  trackerctl summary --user 123456789
  trackerctl summary --user 123456789 --date 2024-03-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return fmt.Errorf("--user is required")
			}
			day, err := parseSummaryDate(date)
			if err != nil {
				return err
			}

			a, err := flags.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.UseCase.DailySummary(cmd.Context(), model.Scope{UserID: userID}, task.SummaryInput{Date: day})
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "Telegram user id")
	cmd.Flags().StringVarP(&date, "date", "d", "", "day as YYYY-MM-DD or DD.MM.YYYY (default: today in the user's zone)")

	return cmd
}

// parseSummaryDate returns the zero time for "", meaning today.
func parseSummaryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range summaryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD or DD.MM.YYYY", s)
}

func printSummary(w io.Writer, r task.SummaryReport) error {
	fmt.Fprintf(w, "Summary for user %d on %s (%s)\n", r.User.ID, r.Date.Format("2006-01-02"), r.User.Timezone)
	if r.Empty {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tDURATION\tLABEL")
	for _, e := range r.Entries {
		label := e.Task.Label
		if e.Task.Comment != "" {
			label += " - " + e.Task.Comment
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Start, e.End, datemath.FormatDuration(e.Duration), label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Groups) > 0 {
		fmt.Fprintln(w, "\nBy label:")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, g := range r.Groups {
			fmt.Fprintf(tw, "  %s\t%s\n", g.Label, datemath.FormatDuration(g.Duration))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nWork: %s\nRest: %s\n", datemath.FormatDuration(r.TotalWork), datemath.FormatDuration(r.TotalRest))
	return err
}
