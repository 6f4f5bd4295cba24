package ai

// Suggestion is the classification result shape shared by the primary and
// fallback providers.
type Suggestion struct {
	Category   string  `json:"category"`
	Severity   int     `json:"severity"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// Valid reports whether the suggestion satisfies the provider contract.
func (s *Suggestion) Valid() bool {
	return s != nil && s.Category != "" && s.Severity >= 1 && s.Severity <= 5
}

// Categories is the fixed enumeration offered to the fallback provider.
var Categories = []string{
	"Pothole",
	"Garbage",
	"Water Leakage",
	"Streetlight Issue",
	"Road Damage",
	"Drain Blockage",
}
