// Package risk maps percentage risk scores to display severity tiers.
// The mapping is shared by the late-arrival panel and the monitor display.
package risk

// Tier is a display severity band for a risk percentage.
type Tier string

// Severity tiers.
const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Tier boundaries. A score of exactly 30 is still low; exactly 70 is still
// medium.
const (
	lowMax    = 30
	mediumMax = 70
)

// For returns the severity tier for a risk percentage.
func For(pct float64) Tier {
	switch {
	case pct <= lowMax:
		return TierLow
	case pct <= mediumMax:
		return TierMedium
	default:
		return TierHigh
	}
}

// Color returns the display color for the tier.
func (t Tier) Color() string {
	switch t {
	case TierMedium:
		return "#fbbf24"
	case TierHigh:
		return "#ef4444"
	default:
		return "#22c55e"
	}
}
