package report

import (
	"context"
	"encoding/json"
	"printdesk/common"
	"printdesk/domain/workorder"
	"time"

	"github.com/opentracing/opentracing-go"
)

const ContentType = "application/json"

type Uploader interface {
	Upload(ctx context.Context, key string, content []byte, contentType string) error
}

// DailyReport summarizes the shop on one calendar day.
type DailyReport struct {
	Date         common.Date                `json:"date"`
	GeneratedAt  time.Time                  `json:"generatedAt"`
	Stats        workorder.DailyStats       `json:"stats"`
	StatusCounts map[workorder.Status]int64 `json:"statusCounts"`
}

var (
	ComputeDailyStatsFunc       = workorder.ComputeDailyStats
	CountWorkOrdersByStatusFunc = workorder.CountWorkOrdersByStatus
)

func BuildDailyReport(ctx context.Context, day common.Date) (*DailyReport, error) {
	stats, err := ComputeDailyStatsFunc(ctx, day, "")
	if err != nil {
		return nil, err
	}
	counts, err := CountWorkOrdersByStatusFunc(ctx)
	if err != nil {
		return nil, err
	}
	return &DailyReport{Date: day, GeneratedAt: common.CurrentTime(), Stats: *stats, StatusCounts: counts}, nil
}

func ObjectKey(day common.Date) string {
	return "reports/" + day.String() + ".json"
}

// ExportDailyReport builds the report of day and uploads it, an existing object of the same day is overwritten.
func ExportDailyReport(ctx context.Context, day common.Date, uploader Uploader) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "export-daily-report")
	defer span.Finish()
	span.SetTag("report-date", day.String())

	r, err := BuildDailyReport(ctx, day)
	if err != nil {
		return "", err
	}
	content, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	key := ObjectKey(day)
	if err := uploader.Upload(ctx, key, content, ContentType); err != nil {
		return "", err
	}
	return key, nil
}
