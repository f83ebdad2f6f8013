package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teamagenda/agenda-api/internal/models"
	"github.com/teamagenda/agenda-api/internal/schedule"
	"github.com/teamagenda/agenda-api/pkg/export"
	appErrors "github.com/teamagenda/agenda-api/pkg/errors"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportResult is a rendered export ready to stream to the client.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportAgendaSource interface {
	WeekAgenda(ctx context.Context, date models.Date) (*schedule.WeekAgenda, bool, error)
}

// ExportService renders agenda snapshots as downloadable files.
type ExportService struct {
	agenda exportAgendaSource
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(agenda exportAgendaSource, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(true)
	}
	return &ExportService{agenda: agenda, csv: csv, pdf: pdf, logger: logger}
}

var exportHeaders = []string{"Date", "User", "Task", "Priority", "Status", "Start", "Duration"}

// WeekExport renders the week agenda around the date in the given format.
func (s *ExportService) WeekExport(ctx context.Context, date models.Date, format ExportFormat) (*ExportResult, error) {
	week, _, err := s.agenda.WeekAgenda(ctx, date)
	if err != nil {
		return nil, err
	}

	dataset := buildWeekDataset(week)
	anchor := schedule.WeekStartOf(date)

	switch format {
	case ExportCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("agenda-week-%s.csv", anchor),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case ExportPDF:
		title := fmt.Sprintf("Week agenda %s", anchor)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("agenda-week-%s.pdf", anchor),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildWeekDataset(week *schedule.WeekAgenda) export.Dataset {
	dataset := export.Dataset{Headers: exportHeaders}
	for _, day := range week.Days {
		for _, entry := range day.Users {
			for _, task := range entry.Tasks {
				row := map[string]string{
					"Date":     day.Date.String(),
					"User":     entry.User.Name,
					"Task":     task.Title,
					"Priority": string(task.Priority),
					"Status":   string(task.Status),
				}
				if task.StartTime != nil {
					row["Start"] = task.StartTime.String()
				}
				if task.Duration != nil {
					row["Duration"] = strconv.Itoa(*task.Duration) + "m"
				}
				dataset.Rows = append(dataset.Rows, row)
			}
		}
	}
	return dataset
}

// ParseExportFormat normalises a query value into an ExportFormat.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "csv":
		return ExportCSV, nil
	case "pdf":
		return ExportPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}
