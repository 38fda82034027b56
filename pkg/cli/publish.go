package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/gantta/pkg/auth"
	"github.com/harrisonrobin/gantta/pkg/config"
	"github.com/harrisonrobin/gantta/pkg/google"
	"github.com/harrisonrobin/gantta/pkg/render/calendar"
)

func publishCmd(a *app) *cobra.Command {
	var (
		calendarName string
		prune        bool
	)
	cmd := &cobra.Command{
		Use:   "publish FILE",
		Short: "Create or update one all-day Google Calendar event per task",
		Long: `publish creates one all-day event per task in a Google Calendar. Event ids are
derived from the task, so publishing the same table again only updates what changed.
With --prune, events published earlier for tasks that are no longer in the table are
deleted.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if calendarName == "" {
				calendarName = cfg.Calendar
			}
			log := a.logger()

			ts, _, err := loadTasks(args[0], cfg, log)
			if err != nil {
				return err
			}
			events := calendar.Events(ts, cfg.Layout.Palette)

			flow, err := auth.NewFlow(cmd.ErrOrStderr(), log)
			if err != nil {
				return err
			}
			srv, err := flow.CalendarService(cmd.Context())
			if err != nil {
				return err
			}
			client, err := google.NewClient(cmd.Context(), srv, calendarName, log)
			if err != nil {
				return err
			}

			sum, err := client.Publish(cmd.Context(), events)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d created, %d updated, %d unchanged, %d failed\n",
				calendarName, sum.Created, sum.Updated, sum.Unchanged, sum.Failed)
			if err != nil {
				return err
			}

			if prune {
				keep := make(map[string]bool, len(events))
				for _, ev := range events {
					keep[ev.Id] = true
				}
				start, _, _ := ts.Span()
				deleted, err := client.Prune(cmd.Context(), start, keep)
				fmt.Fprintf(out, "%s: %d stale events deleted\n", calendarName, deleted)
				if err != nil {
					return err
				}
			}
			log.Info("published", zap.String("calendar", calendarName), zap.Int("events", len(events)))
			return nil
		},
	}
	cmd.Flags().StringVar(&calendarName, "calendar", "", "calendar name (default from configuration, "+config.DefaultCalendar+")")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete events of tasks no longer in the table")
	return cmd
}

func authCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize gantta to write to Google Calendar",
		Long: fmt.Sprintf(`auth discards any stored token and runs the OAuth consent flow again. The OAuth
client must be saved as %s in the configuration directory.`, auth.ClientSecretsFile),
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			flow, err := auth.NewFlow(cmd.ErrOrStderr(), a.logger())
			if err != nil {
				return err
			}
			if err := flow.Reset(); err != nil {
				return err
			}
			if _, err := flow.CalendarService(cmd.Context()); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authentication successful! Token saved in %s\n", flow.Dir)
			return nil
		},
	}
}

func setCalendarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-calendar NAME",
		Short: "Store the default Google Calendar name",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SetCalendar(a.configPath, args[0]); err != nil {
				return err
			}
			a.logger().Debug("default calendar stored", zap.String("calendar", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "Default calendar set to: %s\n", args[0])
			return nil
		},
	}
}
