package models

// GeneratorOptions configures a password generation request. At least one
// character-class toggle should be active for a request to be meaningful,
// but that policy is enforced by the service; the client submits whatever
// the user selected.
type GeneratorOptions struct {
	Length           int  `json:"length"`
	Uppercase        bool `json:"include_uppercase"`
	Lowercase        bool `json:"include_lowercase"`
	Numbers          bool `json:"include_numbers"`
	Symbols          bool `json:"include_symbols"`
	ExcludeSimilar   bool `json:"exclude_similar"`
	ExcludeAmbiguous bool `json:"exclude_ambiguous"`
}

// DefaultGeneratorOptions returns the options used for quick generation
// from the credential form.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Length:    16,
		Uppercase: true,
		Lowercase: true,
		Numbers:   true,
		Symbols:   true,
	}
}

// ClassifyStrength maps a 0–100 strength score from the service to a
// display label. The score itself is never recomputed client-side.
func ClassifyStrength(score int) string {
	switch {
	case score >= 80:
		return "Very Strong"
	case score >= 60:
		return "Strong"
	case score >= 40:
		return "Moderate"
	case score >= 20:
		return "Weak"
	default:
		return "Very Weak"
	}
}
