package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/maeumlog/diary-api/internal/models"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
	"github.com/maeumlog/diary-api/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var exportHeaders = []string{"date", "emotion", "gratitude", "message", "teacherNote"}

// ExportService renders a student's diary into downloadable documents.
type ExportService struct {
	logger  *zap.Logger
	pdfFont []byte
}

// NewExportService constructs an ExportService. pdfFont is the raw TTF
// embedded into PDF exports; nil limits PDF output to Latin glyphs.
func NewExportService(logger *zap.Logger, pdfFont []byte) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{logger: logger, pdfFont: pdfFont}
}

// Export renders the entries sorted ascending by date. The sheet keeps rows
// in insertion order; a document reads better chronologically.
func (s *ExportService) Export(ctx context.Context, studentName, format string, entries []models.DiaryEntry) (*export.Document, error) {
	sorted := append([]models.DiaryEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, errA := models.ParseDate(sorted[i].Date)
		b, errB := models.ParseDate(sorted[j].Date)
		if errA != nil || errB != nil {
			return false
		}
		return a.Before(b)
	})

	records := make([][]string, 0, len(sorted))
	for _, entry := range sorted {
		records = append(records, entry.Cells())
	}

	table := export.Table{
		Title:   fmt.Sprintf("Emotion diary - %s", studentName),
		Headers: exportHeaders,
		Records: records,
	}

	switch format {
	case FormatCSV:
		data, err := export.RenderCSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &export.Document{
			ContentType: "text/csv; charset=utf-8",
			Filename:    fmt.Sprintf("diary-%s.csv", studentName),
			Bytes:       data,
		}, nil
	case FormatPDF:
		data, err := export.RenderPDF(table, s.pdfFont)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &export.Document{
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("diary-%s.pdf", studentName),
			Bytes:       data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
