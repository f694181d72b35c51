package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysAgo(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-2, "Today"},
		{0, "Today"},
		{1, "Yesterday"},
		{5, "5d ago"},
		{14, "2w ago"},
		{45, "6w ago"},
		{90, "3mo ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysAgo(tt.days), "days=%d", tt.days)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "Fracti...", Truncate("Fractions and decimals", 9))
	assert.Equal(t, "ÉÉÉ...", Truncate("ÉÉÉÉÉÉÉÉ", 6))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 entry", Plural(1, "entry", "entries"))
	assert.Equal(t, "0 entries", Plural(0, "entry", "entries"))
	assert.Equal(t, "3 entries", Plural(3, "entry", "entries"))
}

func TestRecencyStyle(t *testing.T) {
	assert.Equal(t, StyleGreen.Render("x"), RecencyStyle(3, 14).Render("x"))
	assert.Equal(t, StyleYellow.Render("x"), RecencyStyle(14, 14).Render("x"))
	assert.Equal(t, StyleRed.Render("x"), RecencyStyle(15, 14).Render("x"))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(
		[]string{"NAME", "DAYS"},
		[][]string{{"Alexandra", "3"}, {"Bo", StyleGreen.Render("12")}},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[3], "Bo"+strings.Repeat(" ", 9)))
	assert.Contains(t, lines[2], "Alexandra  3")
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"a"}}))
}

func TestRenderKeyValues(t *testing.T) {
	out := RenderKeyValues([][2]string{{"Sessions", "4"}, {"Last", "Today"}})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "    "), "short labels are right-aligned")
	assert.Equal(t, 11, lipgloss.Width(lines[0]))
}

func TestRenderBox_IncludesTitle(t *testing.T) {
	out := RenderBox("summary", "body")
	assert.Contains(t, out, "SUMMARY")
	assert.Contains(t, out, "body")
}

func TestSpinner_StopClearsLine(t *testing.T) {
	var buf bytes.Buffer
	stop := StartSpinner(&buf, "loading")
	time.Sleep(100 * time.Millisecond)
	stop()
	assert.True(t, strings.HasSuffix(buf.String(), "\r\033[K"))
}
