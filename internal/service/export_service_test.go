package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maeumlog/diary-api/internal/models"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
)

func TestExportCSVSortsChronologically(t *testing.T) {
	svc := NewExportService(nil, nil)
	entries := []models.DiaryEntry{
		{Date: "2024-01-10", Emotion: "b"},
		{Date: "2024-01-05", Emotion: "a"},
	}

	doc, err := svc.Export(context.Background(), "지우", FormatCSV, entries)
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)
	assert.Equal(t, "diary-지우.csv", doc.Filename)

	body := string(doc.Bytes)
	assert.Less(t, strings.Index(body, "2024-01-05"), strings.Index(body, "2024-01-10"))
}

func TestExportPDFRenders(t *testing.T) {
	svc := NewExportService(nil, nil)

	doc, err := svc.Export(context.Background(), "jiwoo", FormatPDF, []models.DiaryEntry{
		{Date: "2024-01-10", Emotion: "happy", Gratitude: "sun", Message: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, strings.HasPrefix(string(doc.Bytes), "%PDF"))
}

func TestExportPDFRendersKoreanContent(t *testing.T) {
	svc := NewExportService(nil, nil)

	long := strings.Repeat("감사한 일 ", 20)
	doc, err := svc.Export(context.Background(), "지우", FormatPDF, []models.DiaryEntry{
		{Date: "2024-01-10", Emotion: "😀 긍정 - 기쁨", Gratitude: long, Message: "선생님 안녕하세요"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc.Bytes), "%PDF"))
	assert.Equal(t, "diary-지우.pdf", doc.Filename)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(nil, nil)

	_, err := svc.Export(context.Background(), "지우", "xlsx", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
