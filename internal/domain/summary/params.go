package summary

// Length buckets for the tier table.
const (
	shortInputLimit  = 2_000
	mediumInputLimit = 20_000
	longInputFloorAt = 50_000
	hugeInputFloorAt = 100_000
)

// Token conversion constants. Targets are expressed in characters and
// converted with a fixed chars-per-token divisor.
const (
	charsPerToken  = 3
	maxTokensCeil  = 1024
	minTokensFloor = 50
	repairDelta    = 100
	overrideRepair = 50
	minLengthDiv   = 6
)

type tierBounds struct {
	ratio    float64
	minChars int
	maxChars int
}

var shortTier = map[DetailLevel]tierBounds{
	DetailLow:    {ratio: 0.20, minChars: 50, maxChars: 150},
	DetailMedium: {ratio: 0.30, minChars: 80, maxChars: 250},
	DetailHigh:   {ratio: 0.40, minChars: 120, maxChars: 400},
}

var mediumTier = map[DetailLevel]tierBounds{
	DetailLow:    {ratio: 0.10, minChars: 150, maxChars: 600},
	DetailMedium: {ratio: 0.15, minChars: 250, maxChars: 1200},
	DetailHigh:   {ratio: 0.25, minChars: 400, maxChars: 2500},
}

var longTier = map[DetailLevel]tierBounds{
	DetailLow:    {ratio: 0.05, minChars: 400, maxChars: 1500},
	DetailMedium: {ratio: 0.08, minChars: 600, maxChars: 2500},
	DetailHigh:   {ratio: 0.12, minChars: 1000, maxChars: 4000},
}

// Fixed floors keep summaries of very long documents proportionally
// substantial instead of shrinking to the tier ceiling.
var longInputFloors = map[DetailLevel]int{
	DetailLow:    5_000,
	DetailMedium: 10_000,
	DetailHigh:   15_000,
}

var hugeInputFloors = map[DetailLevel]int{
	DetailLow:    10_000,
	DetailMedium: 20_000,
	DetailHigh:   30_000,
}

// CalculateParams maps (cleaned text length, detail level) to a length
// budget. maxLength and minLength are optional caller-supplied character
// hints; zero means unset. The returned params always satisfy
// MinTokens < MaxTokens.
func CalculateParams(length int, level DetailLevel, maxLength, minLength int) SummaryParams {
	bounds := tierFor(length)[level]

	target := clampInt(int(float64(length)*bounds.ratio), bounds.minChars, bounds.maxChars)
	switch {
	case length >= hugeInputFloorAt:
		if floor := hugeInputFloors[level]; target < floor {
			target = floor
		}
	case length >= longInputFloorAt:
		if floor := longInputFloors[level]; target < floor {
			target = floor
		}
	}

	maxTokens := minInt(maxTokensCeil, target/charsPerToken)
	minTokens := maxInt(minTokensFloor, maxTokens/3)
	if minTokens >= maxTokens {
		maxTokens = minTokens + repairDelta
	}

	if maxLength > 0 {
		maxTokens = maxLength / charsPerToken
	}
	if minLength > 0 {
		minTokens = minLength / minLengthDiv
	}
	if (maxLength > 0 || minLength > 0) && minTokens >= maxTokens {
		maxTokens = minTokens + overrideRepair
	}

	return SummaryParams{
		MinTokens:         minTokens,
		MaxTokens:         maxTokens,
		TargetLengthChars: target,
	}
}

func tierFor(length int) map[DetailLevel]tierBounds {
	switch {
	case length < shortInputLimit:
		return shortTier
	case length < mediumInputLimit:
		return mediumTier
	}
	return longTier
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
