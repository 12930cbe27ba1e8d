package export

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	long := strings.Repeat("기쁨😀", 30)

	got := truncate(long, 60)
	assert.True(t, utf8.ValidString(got), "the cut must never split a multi-byte rune")
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 60, len([]rune(got)))
}

func TestTruncateLeavesShortCellsAlone(t *testing.T) {
	assert.Equal(t, "감사한 일", truncate("감사한 일", 60))
	assert.Equal(t, "", truncate("", 60))
}

func TestRenderPDFWithoutFontStillProducesDocument(t *testing.T) {
	doc, err := RenderPDF(Table{
		Title:   "감정 일기 - 지우",
		Headers: []string{"date", "emotion"},
		Records: [][]string{{"2024-01-10", "😀 긍정 - 기쁨"}},
	}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "%PDF"))
}
