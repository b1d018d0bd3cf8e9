package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/kanso-planner/internal/app"
	"github.com/comitanigiacomo/kanso-planner/internal/core/domain"
)

var (
	summaryDate    string
	categoriesDate string
	historyLimit   int
)

func init() {
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "any day of the week to summarise (YYYY-MM-DD), default today")
	categoriesCmd.Flags().StringVar(&categoriesDate, "date", "", "any day of the health week (YYYY-MM-DD)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 8, "number of archived weeks")

	taskCmd.AddCommand(taskAddCmd, taskListCmd)
	rootCmd.AddCommand(summaryCmd, dailyCmd, taskCmd, migrateCmd, trackerCmd, categoriesCmd, historyCmd, bootstrapCmd, serveCmd, watchCmd)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Regenerate Summary.md",
	Long: `Regenerate the weekly summary: the habit chart of the health week
containing --date and the task statistics of the week before it.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		date, err := parseDate(summaryDate, a)
		if err != nil {
			return err
		}

		report, err := a.Summary.GenerateWeeklySummary(cmd.Context(), date)
		if err != nil {
			return err
		}

		stats := report.TaskWeek.Stats
		cmd.Printf("Wrote %s\n", report.Path)
		cmd.Printf("Health week %s, task week %s\n", report.HealthWeek.RangeLabel(), report.TaskWeek.Week.RangeLabel())
		cmd.Printf("Tasks: %d done of %d (%d%%), %d files skipped\n",
			stats.TotalFinishedTasks, stats.TotalTasks, stats.CompletionPercent(), report.TaskWeek.SkippedCount())
		return nil
	}),
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Create today's task file",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		p, created, err := a.Planner.CreateDailyFile(cmd.Context())
		if err != nil {
			return err
		}
		if created {
			cmd.Printf("Created %s\n", p)
		} else {
			cmd.Printf("%s already exists\n", p)
		}
		return nil
	}),
}

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Work with today's tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Append an open task to today's file",
	Long: `Append "- [ ] <text>" to today's daily file, creating it first.
Without text the task reads "New task".`,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		line, err := a.Planner.AddTask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		cmd.Println(line)
		return nil
	}),
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List today's open tasks",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		tasks, err := a.Planner.TodayTasks(cmd.Context())
		if err != nil {
			return err
		}
		printList(cmd, "Open tasks", tasks)
		return nil
	}),
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Carry unfinished tasks from the last daily file into today's",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		res, err := a.Planner.MigrateUnfinished(cmd.Context())
		if err != nil {
			return err
		}
		if res.AlreadyDone {
			cmd.Println("Tasks were already migrated today")
			return nil
		}
		if res.Source == "" {
			cmd.Println("No earlier daily file in the last week")
		}
		printList(cmd, "Migrated", res.Tasks)
		return nil
	}),
}

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Create this week's habit tracker and print its totals",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		p, created, err := a.Planner.CreateWeeklyTracker(cmd.Context())
		if err != nil {
			return err
		}
		if created {
			cmd.Printf("Created %s\n", p)
		}

		totals, err := a.Planner.TrackerSummary(cmd.Context())
		if err != nil {
			return err
		}
		printList(cmd, "Health Tracker", totals)
		return nil
	}),
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show the habit categories tracked this week",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		date, err := parseDate(categoriesDate, a)
		if err != nil {
			return err
		}

		set, err := a.Categories.Categories(cmd.Context(), date)
		if err != nil {
			return err
		}

		cmd.Printf("Categories for %s:\n", domain.HealthWeek(date).RangeLabel())
		for _, name := range set.Names() {
			cmd.Printf("  %-12s %s\n", name, a.Chart.ColorFor(name))
		}
		return nil
	}),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived weekly snapshots",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		snapshots, err := a.Summary.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			cmd.Println("No archived weeks")
			return nil
		}
		for _, s := range snapshots {
			cmd.Printf("%s  %3d%%  %d/%d tasks\n",
				s.HealthWeekStart.Format("2006-01-02"), s.Stats.CompletionPercent(),
				s.Stats.TotalFinishedTasks, s.Stats.TotalTasks)
		}
		return nil
	}),
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create folders, daily file and tracker, migrate tasks, refresh the summary",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		res, err := a.Planner.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		for _, n := range res.Notices {
			cmd.Println(n)
		}
		printList(cmd, "Created", res.Created)
		return nil
	}),
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the worker, scheduler and watcher",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.StartBackground(ctx); err != nil {
			return err
		}
		return a.Serve(ctx)
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the summary whenever task or tracker files change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		a.Worker.Start(ctx)
		if err := a.Watch(ctx); err != nil {
			return err
		}

		cmd.Printf("Watching %s, press Ctrl+C to stop\n", a.Vault.Root())
		<-ctx.Done()
		return nil
	},
}
