package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatSummary_BulletPoints(t *testing.T) {
	raw := "The report covers three quarters. Revenue grew steadily in each one. Costs stayed flat across the period"

	got := FormatSummary(raw, FormatBulletPoints)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		require.True(t, strings.HasPrefix(line, "• "), "line %q", line)
		require.Regexp(t, `[.!?]$`, line)
	}
	require.Equal(t, "• Costs stayed flat across the period.", lines[2])
}

func TestFormatSummary_BulletClauseResplit(t *testing.T) {
	// Too few sentence terminators: clause boundaries produce the bullets.
	raw := "the system parses incoming documents quickly and the pipeline writes chunk results safely and the service records every failure"

	got := FormatSummary(raw, FormatBulletPoints)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "• the system parses incoming documents quickly.", lines[0])
}

func TestFormatSummary_BulletCap(t *testing.T) {
	raw := strings.TrimSpace(strings.Repeat("Another finding worth a bullet point here. ", 20))

	got := FormatSummary(raw, FormatBulletPoints)
	require.Len(t, strings.Split(got, "\n"), maxBullets)
}

func TestFormatSummary_BulletDegenerate(t *testing.T) {
	got := FormatSummary("tiny note", FormatBulletPoints)
	require.Equal(t, "• tiny note.", got)
}

func TestFormatSummary_TLDR(t *testing.T) {
	got := FormatSummary("  Everything went fine.  ", FormatTLDR)
	require.Equal(t, "TL;DR: Everything went fine.", got)
}

func TestFormatSummary_Passthrough(t *testing.T) {
	raw := "  A plain summary without decoration.  "
	require.Equal(t, "A plain summary without decoration.", FormatSummary(raw, FormatSimplified))
	require.Equal(t, "A plain summary without decoration.", FormatSummary(raw, FormatDetailed))
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatBulletPoints, format)

	format, err = ParseFormat("tldr")
	require.NoError(t, err)
	require.Equal(t, FormatTLDR, format)

	_, err = ParseFormat("haiku")
	require.Error(t, err)
}

func TestParseDetailLevel(t *testing.T) {
	level, err := ParseDetailLevel("")
	require.NoError(t, err)
	require.Equal(t, DetailMedium, level)

	level, err = ParseDetailLevel("high")
	require.NoError(t, err)
	require.Equal(t, DetailHigh, level)

	_, err = ParseDetailLevel("extreme")
	require.Error(t, err)
}
