package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/payment_reminder/config"
	"bitbucket.org/mmdatafocus/payment_reminder/models"
	"bitbucket.org/mmdatafocus/payment_reminder/models/reports"
	"bitbucket.org/mmdatafocus/payment_reminder/notify"
	"bitbucket.org/mmdatafocus/payment_reminder/utils"
)

// RunResult is what a completed run produced.
type RunResult struct {
	Stats       *models.RunStats
	Report      string
	ReportPath  string
	PendingPath string
	StillFailed []models.FailedMessage
}

// ReminderMessage is the text sent to one unpaid online customer.
func ReminderMessage(name string, amount decimal.Decimal, cycle string) string {
	return fmt.Sprintf(
		"Dear %s, Good Day,\n"+
			"Gentle Reminder\n"+
			"Kindly pay the Cable TV amount for %s month, Rs %s, via GPay/Paytm/PhonePe/WhatsApp\n\n"+
			"Please send a screenshot of the payment receipt if possible\n\n"+
			"Ignore if paid\n\n"+
			"Thank you for your kind co-operation. Have a nice day",
		name, cycle, amount.String(),
	)
}

// pacer inserts the fixed inter-message delay before every send after the
// first. Sequential pacing, not scheduling.
type pacer struct {
	delay time.Duration
	first bool
}

func newPacer(delay time.Duration) *pacer {
	return &pacer{delay: delay, first: true}
}

func (p *pacer) wait() {
	if p.first {
		p.first = false
		return
	}
	time.Sleep(p.delay)
}

// ProcessReminderWorkflow is the whole batch: load history and customers,
// classify every row in input order, send reminders to unpaid online
// customers (deduped per calendar day), run exactly one retry pass over
// failures, then render the report, deliver it to the admins and persist the
// history. Only config and data-load problems abort; everything per-row or
// per-send is recovered in place.
func ProcessReminderWorkflow(ctx context.Context, logger *logrus.Logger, cfg *config.Config, notifier notify.Notifier) (*RunResult, error) {
	runID := uuid.NewString()
	logger.WithFields(logrus.Fields{
		"run_id":      runID,
		"data_source": cfg.DataSource,
	}).Info("starting payment reminder run")

	if cfg.ReminderTimeDiffHours != 24 {
		config.LogWarn(logger, "reminderWorkflow.go", "ProcessReminderWorkflow", "config",
			cfg.ReminderTimeDiffHours, "reminder_time_diff_hours is set but dedup is calendar-day based; the setting has no effect")
	}

	history, err := models.LoadReminderHistory(cfg.HistoryPath)
	if err != nil {
		config.LogError(logger, "reminderWorkflow.go", "ProcessReminderWorkflow", "loading reminder history", cfg.HistoryPath, err)
		return nil, err
	}

	customers, err := models.LoadCustomers(logger, cfg.DataSource, cfg.SheetName)
	if err != nil {
		config.LogError(logger, "reminderWorkflow.go", "ProcessReminderWorkflow", "loading customer data", cfg.DataSource, err)
		return nil, err
	}

	classifier := &models.Classifier{CountryCode: cfg.CountryCode}
	stats := models.NewRunStats()
	queue := &models.FailureQueue{}
	pace := newPacer(cfg.SendDelay())
	reminded := map[string]bool{}
	now := time.Now()

	var pending []reports.PendingCustomer

	for i, rec := range customers {
		c := classifier.Classify(rec)
		for _, w := range c.Warnings {
			config.LogWarn(logger, "reminderWorkflow.go", "ProcessReminderWorkflow",
				fmt.Sprintf("row %d", rec.Row), rec.Name, w)
		}
		stats.Apply(rec, c)

		if c.Decision == models.DecisionUnpaidOnline {
			pending = append(pending, reports.PendingCustomer{
				Name:   rec.Name,
				Number: rec.RawNumbers,
				Amount: c.Amount,
				Cycle:  rec.Cycle,
			})

			id := rec.ID()
			snap := models.ReminderSnapshot{Name: rec.Name, Amount: c.Amount, Cycle: rec.Cycle, Status: rec.RawStatus}
			if !history.ShouldRemind(id, snap, now) {
				stats.RemindersSkipped++
				logger.WithFields(logrus.Fields{"customer": rec.Name}).Debug("reminder already sent today, skipping")
			} else {
				message := ReminderMessage(rec.Name, c.Amount, rec.Cycle)
				sent := false
				for _, number := range rec.Numbers() {
					dest := utils.NormalizeDestination(number, cfg.CountryCode)
					pace.wait()
					if err := notifier.Send(ctx, dest, message); err != nil {
						sendErr := &utils.SendError{Destination: dest, Err: err}
						config.LogError(logger, "reminderWorkflow.go", "ProcessReminderWorkflow",
							fmt.Sprintf("row %d", rec.Row), rec.Name, sendErr)
						queue.Add(models.FailedMessage{
							CustomerID: id,
							Name:       rec.Name,
							Number:     dest,
							Amount:     c.Amount,
							Cycle:      rec.Cycle,
							Mode:       c.Mode,
							Status:     rec.RawStatus,
							Err:        err.Error(),
						})
						continue
					}
					sent = true
				}
				if sent {
					history.RecordSent(id, snap, time.Now())
					reminded[id] = true
					stats.RemindersSent++
				}
			}
		}

		if (i+1)%10 == 0 {
			logger.Infof("processed %d/%d records", i+1, len(customers))
		}
	}

	retryFailedMessages(ctx, logger, cfg, notifier, queue, history, stats, reminded)

	report := reports.BuildDailyReport(reports.Input{Date: now, Stats: stats, Failed: queue.Items()})

	reportPath, err := reports.WriteReportFile(cfg.ReportDir, now, report)
	if err != nil {
		// The admins still get the report over the channel.
		config.LogError(logger, "reminderWorkflow.go", "ProcessReminderWorkflow", "writing report file", cfg.ReportDir, err)
		reportPath = ""
	}

	pendingPath, err := reports.ExportPendingXlsx(cfg.ReportDir, now, pending)
	if err != nil {
		config.LogError(logger, "reminderWorkflow.go", "ProcessReminderWorkflow", "writing pending xlsx", cfg.ReportDir, err)
		pendingPath = ""
	}

	for _, admin := range cfg.AdminNumbers {
		pace.wait()
		if err := notifier.Send(ctx, admin, report); err != nil {
			// Report delivery failure never fails the run.
			config.LogError(logger, "reminderWorkflow.go", "ProcessReminderWorkflow", "delivering report", admin, err)
		}
	}

	if err := history.Save(cfg.HistoryPath); err != nil {
		config.LogError(logger, "reminderWorkflow.go", "ProcessReminderWorkflow", "saving reminder history", cfg.HistoryPath, err)
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"run_id":            runID,
		"customers":         stats.TotalCustomers(),
		"reminders_sent":    stats.RemindersSent,
		"reminders_skipped": stats.RemindersSkipped,
		"still_failed":      queue.Len(),
	}).Info("payment reminder run completed")

	return &RunResult{
		Stats:       stats,
		Report:      report,
		ReportPath:  reportPath,
		PendingPath: pendingPath,
		StillFailed: queue.Items(),
	}, nil
}

// retryFailedMessages performs the single retry pass. Messages failing again
// go back on the queue for the report only; there is no third attempt.
func retryFailedMessages(ctx context.Context, logger *logrus.Logger, cfg *config.Config, notifier notify.Notifier, queue *models.FailureQueue, history *models.ReminderHistory, stats *models.RunStats, reminded map[string]bool) {
	if queue.Len() == 0 {
		return
	}
	logger.Infof("retrying %d failed messages", queue.Len())

	for _, m := range queue.Drain() {
		time.Sleep(cfg.SendDelay())
		message := ReminderMessage(m.Name, m.Amount, m.Cycle)
		if err := notifier.Send(ctx, m.Number, message); err != nil {
			m.Err = err.Error()
			queue.Add(m)
			config.LogError(logger, "reminderWorkflow.go", "retryFailedMessages", "retry send", m.Name, err)
			continue
		}
		snap := models.ReminderSnapshot{Name: m.Name, Amount: m.Amount, Cycle: m.Cycle, Status: m.Status}
		history.RecordSent(m.CustomerID, snap, time.Now())
		if !reminded[m.CustomerID] {
			reminded[m.CustomerID] = true
			stats.RemindersSent++
		}
	}
}
