package risk

import (
	"math"

	"github.com/codeguardian/guardian/engines"
)

type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

const (
	maxScore        = 100
	criticalPenalty = 1.2
)

type Counts struct {
	Critical int
	High     int
	Medium   int
	Low      int
}

func (c Counts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low
}

func CountFindings(findings []engines.Finding) Counts {
	var counts Counts

	for _, finding := range findings {
		switch finding.Severity {
		case engines.Critical:
			counts.Critical++
		case engines.High:
			counts.High++
		case engines.Medium:
			counts.Medium++
		case engines.Low:
			counts.Low++
		}
	}

	return counts
}

type RiskScore struct {
	Value int   `json:"riskScore"`
	Level Level `json:"riskLevel"`
}

// Score weighs each severity tier with diminishing returns up to a tier
// ceiling (50, 30, 15 and 8 points), truncates the sum and applies a 20%
// penalty when anything critical was found. The result never exceeds 100 and
// never decreases when a count grows.
func Score(counts Counts) RiskScore {
	total := int(tier(counts.Critical, 50, func(n float64) float64 { return 20*n + 5*math.Pow(n, 1.5) }) +
		tier(counts.High, 30, func(n float64) float64 { return 12*n + 3*math.Sqrt(n) }) +
		tier(counts.Medium, 15, func(n float64) float64 { return 6*n + 2*math.Log(n+1) }) +
		tier(counts.Low, 8, func(n float64) float64 { return 2*n + math.Log(n+1) }))

	if counts.Critical > 0 {
		total = int(float64(total) * criticalPenalty)
	}

	if total > maxScore {
		total = maxScore
	}

	return RiskScore{Value: total, Level: LevelFor(total)}
}

func tier(count int, ceiling float64, weight func(float64) float64) float64 {
	if count <= 0 {
		return 0
	}

	return math.Min(ceiling, weight(float64(count)))
}

func LevelFor(score int) Level {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 60:
		return LevelHigh
	case score >= 30:
		return LevelMedium
	default:
		return LevelLow
	}
}
