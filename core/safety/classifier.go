package safety

// Classification is the result of mapping material stress to a risk level.
type Classification struct {
	Level   string `json:"level"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type threshold struct {
	belowPct float64
	result   Classification
}

// The table is ordered by rising stress. Extending the policy means adding a
// row here; call sites never switch on levels.
var thresholds = []threshold{
	{40, Classification{Level: "green", Status: "NOMINAL", Message: "Core within nominal stress envelope"}},
	{70, Classification{Level: "yellow", Status: "ELEVATED", Message: "Elevated material stress - monitoring"}},
	{90, Classification{Level: "orange", Status: "HIGH", Message: "High material stress - reduced margins"}},
}

var critical = Classification{Level: "red", Status: "CRITICAL", Message: "Critical material stress - full safety protocols active"}

// Classify maps a material stress percentage to a discrete risk level.
// Thresholds are monotonic with no hysteresis.
func Classify(stressPct float64) Classification {
	for _, t := range thresholds {
		if stressPct < t.belowPct {
			return t.result
		}
	}
	return critical
}
