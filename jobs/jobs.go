package jobs

import (
	"context"
	"printdesk/common"
	"printdesk/domain/notification"
	"printdesk/domain/workorder"
	"printdesk/report"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	NameDeleteNotifications   = "delete-notifications"
	NameDeleteWorkOrders      = "delete-work-orders"
	NameGenerateNotifications = "generate-notifications"
	NameExportDailyReport     = "export-daily-report"

	RetentionDays = 30
)

var (
	PurgeNotificationsFunc    = notification.PurgeNotificationsCreatedBefore
	PurgeWorkOrdersFunc       = workorder.PurgeWorkOrdersCreatedBefore
	GenerateNotificationsFunc = notification.GenerateDeadlineNotifications
	ExportDailyReportFunc     = report.ExportDailyReport
)

// RetentionCutoff is the start of the day RetentionDays before today, older records are purged.
func RetentionCutoff() time.Time {
	start, _ := common.DayRange(common.Today().AddDays(-RetentionDays))
	return start
}

// All lists the scheduled jobs, the report export is included only when uploader is not nil.
func All(uploader report.Uploader) []Job {
	jobs := []Job{
		{Name: NameDeleteNotifications, Spec: "0 55 4 * * *", Run: deleteNotifications},
		{Name: NameDeleteWorkOrders, Spec: "0 55 4 * * *", Run: deleteWorkOrders},
		{Name: NameGenerateNotifications, Spec: "0 0 5 * * *", Run: generateNotifications},
	}
	if uploader != nil {
		jobs = append(jobs, Job{Name: NameExportDailyReport, Spec: "0 55 23 * * *", Run: func(ctx context.Context) error {
			key, err := ExportDailyReportFunc(ctx, common.Today(), uploader)
			if err != nil {
				return err
			}
			logrus.WithField("job", NameExportDailyReport).WithField("key", key).Info("daily report exported")
			return nil
		}})
	}
	return jobs
}

func deleteNotifications(ctx context.Context) error {
	cutoff := RetentionCutoff()
	purged, err := PurgeNotificationsFunc(ctx, cutoff)
	if err != nil {
		return err
	}
	logrus.WithField("job", NameDeleteNotifications).WithField("cutoff", cutoff).WithField("purged", purged).Info("notifications purged")
	return nil
}

func deleteWorkOrders(ctx context.Context) error {
	cutoff := RetentionCutoff()
	purged, err := PurgeWorkOrdersFunc(ctx, cutoff)
	if err != nil {
		return err
	}
	logrus.WithField("job", NameDeleteWorkOrders).WithField("cutoff", cutoff).WithField("purged", purged).Info("work orders purged")
	return nil
}

func generateNotifications(ctx context.Context) error {
	created, err := GenerateNotificationsFunc(ctx, common.Today())
	if err != nil {
		return err
	}
	logrus.WithField("job", NameGenerateNotifications).WithField("created", created).Info("deadline notifications generated")
	return nil
}
