package feedback

// Tier is the qualitative severity of a score.
type Tier string

const (
	TierStrong   Tier = "strong"
	TierModerate Tier = "moderate"
	TierWeak     Tier = "weak"
)

// Badge is the label and tier shown next to a score.
type Badge struct {
	Label string `json:"label"`
	Tier  Tier   `json:"tier"`
}

var (
	badgeStrong   = Badge{Label: "Strong", Tier: TierStrong}
	badgeModerate = Badge{Label: "Good Start", Tier: TierModerate}
	badgeWeak     = Badge{Label: "Needs Work", Tier: TierWeak}
)

// Classify maps a score to its badge. Out-of-range scores fall into the nearest tier.
func Classify(score int) Badge {
	switch {
	case score > 70:
		return badgeStrong
	case score > 49:
		return badgeModerate
	default:
		return badgeWeak
	}
}

// Tone is the coloring bucket used when a numeric score is printed.
type Tone string

const (
	ToneHigh   Tone = "high"
	ToneMedium Tone = "medium"
	ToneLow    Tone = "low"
)

// ScoreTone buckets a score for numeric display; thresholds differ from Classify.
func ScoreTone(score int) Tone {
	switch {
	case score >= 80:
		return ToneHigh
	case score >= 50:
		return ToneMedium
	default:
		return ToneLow
	}
}
