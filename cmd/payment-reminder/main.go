package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/payment_reminder/config"
	"bitbucket.org/mmdatafocus/payment_reminder/notify"
	"bitbucket.org/mmdatafocus/payment_reminder/workflow"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the run configuration file")
	dataSource := flag.String("data-source", "", "Optional: override data_source from the config")
	dryRun := flag.Bool("dry-run", false, "Log messages instead of sending them")
	flag.Parse()

	logger := config.GetLogger()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(*dataSource) != "" {
		cfg.DataSource = strings.TrimSpace(*dataSource)
	}

	var notifier notify.Notifier
	if *dryRun {
		notifier = &notify.Console{Logger: logger}
	} else {
		notifier, err = notify.NewGateway()
		if err != nil {
			fmt.Fprintf(os.Stderr, "gateway not configured: %v\n", err)
			os.Exit(1)
		}
	}

	result, err := workflow.ProcessReminderWorkflow(context.Background(), logger, cfg, notifier)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reminder run failed: %v\n", err)
		os.Exit(1)
	}

	stats := result.Stats
	fmt.Printf("Processed %d customers (%d online, %d offline): %d reminders sent, %d skipped, %d still failing\n",
		stats.TotalCustomers(), stats.Online.Total, stats.Offline.Total,
		stats.RemindersSent, stats.RemindersSkipped, len(result.StillFailed))
	if result.ReportPath != "" {
		fmt.Printf("Report written to %s\n", result.ReportPath)
	}
	if result.PendingPath != "" {
		fmt.Printf("Pending list written to %s\n", result.PendingPath)
	}
}
