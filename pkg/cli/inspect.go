package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/gantta/pkg/dates"
	"github.com/harrisonrobin/gantta/pkg/model"
	"github.com/harrisonrobin/gantta/pkg/normalize"
	"github.com/harrisonrobin/gantta/pkg/stats"
)

// previewRows is the number of tasks shown by inspect.
const previewRows = 20

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4e79a7"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e15759"))
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func inspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the metrics and the first rows of a task table",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			ts, report, err := loadTasks(args[0], cfg, a.logger())
			if err != nil {
				return err
			}
			printInspect(cmd.OutOrStdout(), ts, report)
			return nil
		},
	}
}

func printInspect(w io.Writer, ts model.TaskSet, report normalize.Report) {
	s := stats.Summarize(ts)

	fmt.Fprintln(w, headingStyle.Render("Metrics"))
	metric := func(label, value string) {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value)))
	}
	metric("Tasks", humanize.Comma(int64(s.Tasks)))
	metric("Categories", humanize.Comma(int64(s.Categories)))
	metric("Mean duration", stats.Days(s.MeanDuration))
	metric("Total period", fmt.Sprintf("%s → %s (%s days)",
		s.Start.Format(dates.Long), s.End.Format(dates.Long), humanize.Comma(int64(s.SpanDays))))
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingStyle.Render("Rows"))
	metric("Read", humanize.Comma(int64(report.Rows)))
	metric("Kept", humanize.Comma(int64(report.Kept)))
	for _, r := range slices.Sorted(maps.Keys(report.Dropped)) {
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render("Dropped"),
			warnStyle.Render(fmt.Sprintf("%s %s", humanize.Comma(int64(report.Dropped[r])), r))))
	}
	fmt.Fprintln(w)

	preview := ts
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Preview (%d of %s tasks)", len(preview), humanize.Comma(int64(len(ts))))))
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		}).
		Headers("Category", "Task", "Start", "End", "Days")
	for _, t := range preview {
		tbl.Row(t.Category, t.Name, t.Start.Format(dates.ISO), t.End.Format(dates.ISO), strconv.Itoa(t.DurationDays))
	}
	fmt.Fprintln(w, tbl.Render())
}
