package risk

import "github.com/codeguardian/guardian/engines"

type Summary struct {
	TotalFindings int   `json:"totalFindings"`
	CriticalCount int   `json:"criticalCount"`
	HighCount     int   `json:"highCount"`
	MediumCount   int   `json:"mediumCount"`
	LowCount      int   `json:"lowCount"`
	RiskScore     int   `json:"riskScore"`
	RiskLevel     Level `json:"riskLevel"`
}

func Summarize(findings []engines.Finding) Summary {
	counts := CountFindings(findings)
	score := Score(counts)

	return Summary{
		TotalFindings: counts.Total(),
		CriticalCount: counts.Critical,
		HighCount:     counts.High,
		MediumCount:   counts.Medium,
		LowCount:      counts.Low,
		RiskScore:     score.Value,
		RiskLevel:     score.Level,
	}
}
