package summary

import (
	"regexp"
	"strings"
)

const (
	tldrPrefix  = "TL;DR: "
	bulletGlyph = "• "

	maxBullets        = 15
	bulletFragmentMin = 15
	clauseFragmentMin = 20
	bulletResplitAt   = 3
)

// clauseBreak re-splits summaries that carry few sentence terminators:
// semicolons or coordinating conjunctions mark clause boundaries.
var clauseBreak = regexp.MustCompile(`;|\band\b|\bbut\b|\bor\b|\byet\b|\bso\b`)

// FormatSummary renders the raw summary string in the requested style.
func FormatSummary(raw string, format Format) string {
	trimmed := strings.TrimSpace(raw)
	switch format {
	case FormatBulletPoints:
		return formatBullets(trimmed)
	case FormatTLDR:
		return tldrPrefix + trimmed
	case FormatSimplified:
		return trimmed
	case FormatDetailed:
		return trimmed
	}
	// Formats are parsed at the boundary; unreached for valid requests.
	return trimmed
}

func formatBullets(text string) string {
	frags := sentenceFragments(text, bulletFragmentMin)
	if len(frags) < bulletResplitAt {
		if alt := clauseFragments(text); len(alt) > len(frags) {
			frags = alt
		}
	}
	if len(frags) == 0 {
		return bulletGlyph + ensureTerminator(text)
	}
	if len(frags) > maxBullets {
		frags = frags[:maxBullets]
	}

	var b strings.Builder
	for i, frag := range frags {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(bulletGlyph)
		b.WriteString(ensureTerminator(frag))
	}
	return b.String()
}

func clauseFragments(text string) []string {
	pieces := clauseBreak.Split(text, -1)
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if len(piece) > clauseFragmentMin {
			out = append(out, piece)
		}
	}
	return out
}

func ensureTerminator(frag string) string {
	frag = strings.TrimSpace(frag)
	if frag == "" {
		return frag
	}
	switch frag[len(frag)-1] {
	case '.', '!', '?':
		return frag
	}
	return frag + "."
}
