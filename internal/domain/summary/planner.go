package summary

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minChunkSize        = 1_000
	chunkOverflowFactor = 1.5
	forceSplitGate      = 20_000
	plannerFragmentMin  = 20
	minParagraphCount   = 3
)

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	sentenceEnd    = regexp.MustCompile(`[.!?]+`)
)

// PlanChunks splits text into roughly targetChunks bounded, content-
// respecting segments. It never fails: the splitting strategy degrades from
// paragraph boundaries to sentence boundaries to fixed-size windows, and
// non-empty input always yields at least one non-empty chunk.
func PlanChunks(text string, targetChunks int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if targetChunks < 1 {
		targetChunks = 1
	}
	targetSize := maxInt(len(text)/targetChunks, minChunkSize)

	parts := splitParagraphs(text)
	if len(parts) < minParagraphCount {
		if sentences := sentenceFragments(text, plannerFragmentMin); len(sentences) > 0 {
			parts = sentences
		} else {
			return splitFixed(text, targetSize)
		}
	}

	chunks := packParts(parts, targetSize)

	// Post-pass safety: too few chunks for a large input means some chunk
	// is carrying far more than its share.
	if len(chunks) < maxInt(2, targetChunks/3) && len(text) > forceSplitGate {
		chunks = forceSplitOversized(chunks, targetSize)
	}

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

func splitParagraphs(text string) []string {
	raw := paragraphBreak.Split(text, -1)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// sentenceFragments splits on sentence terminators, keeping the terminator
// attached and dropping fragments at or below minLen characters.
func sentenceFragments(text string, minLen int) []string {
	var out []string
	prev := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		frag := strings.TrimSpace(text[prev:loc[1]])
		prev = loc[1]
		if len(frag) > minLen {
			out = append(out, frag)
		}
	}
	if tail := strings.TrimSpace(text[prev:]); len(tail) > minLen {
		out = append(out, tail)
	}
	return out
}

// packParts greedily accumulates parts into a running chunk. The chunk is
// emitted before a part that would overflow targetSize, and forcibly emitted
// if it exceeds 1.5x targetSize mid-accumulation.
func packParts(parts []string, targetSize int) []string {
	var (
		chunks []string
		cur    strings.Builder
	)
	valve := int(float64(targetSize) * chunkOverflowFactor)

	flush := func() {
		if chunk := strings.TrimSpace(cur.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		cur.Reset()
	}

	for _, part := range parts {
		if cur.Len() > 0 && cur.Len()+len(part)+1 > targetSize {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(part)
		if cur.Len() > valve {
			flush()
		}
	}
	flush()
	return chunks
}

// forceSplitOversized halves chunks larger than targetSize, preferring the
// sentence boundary nearest the midpoint and falling back to a raw
// character midpoint when the chunk has too few sentences.
func forceSplitOversized(chunks []string, targetSize int) []string {
	out := make([]string, 0, len(chunks)*2)
	for _, chunk := range chunks {
		if len(chunk) <= targetSize {
			out = append(out, chunk)
			continue
		}
		head, tail := splitNearMidpoint(chunk)
		out = append(out, head)
		if tail != "" {
			out = append(out, tail)
		}
	}
	return out
}

func splitNearMidpoint(chunk string) (string, string) {
	mid := len(chunk) / 2
	boundaries := sentenceEnd.FindAllStringIndex(chunk, -1)

	best := -1
	for _, loc := range boundaries {
		end := loc[1]
		if end == 0 || end >= len(chunk) {
			continue
		}
		if best == -1 || absInt(end-mid) < absInt(best-mid) {
			best = end
		}
	}
	if best <= 0 {
		best = runeStart(chunk, mid)
	}
	head := strings.TrimSpace(chunk[:best])
	tail := strings.TrimSpace(chunk[best:])
	return head, tail
}

// splitFixed cuts text into consecutive windows of at most size bytes,
// keeping every cut on a rune boundary.
func splitFixed(text string, size int) []string {
	if size < 1 {
		size = 1
	}
	var chunks []string
	for start := 0; start < len(text); {
		end := len(text)
		if start+size < end {
			end = runeStart(text, start+size)
			if end <= start {
				_, width := utf8.DecodeRuneInString(text[start:])
				end = start + width
			}
		}
		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		start = end
	}
	return chunks
}

// runeStart backs a raw byte offset up to the nearest rune boundary so byte
// cuts never split a multibyte character.
func runeStart(s string, idx int) int {
	for idx > 0 && idx < len(s) && !utf8.RuneStart(s[idx]) {
		idx--
	}
	return idx
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
