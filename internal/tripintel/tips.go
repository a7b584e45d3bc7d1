package tripintel

// Advisory tips shown alongside the weather panel.
const (
	TipUmbrella = "Carry an umbrella and keep extra stopping distance on wet roads."
	TipGrip     = "Strong winds ahead, keep both hands on the wheel and watch for crosswinds."
	TipCooling  = "High heat, check your coolant level and carry drinking water."
	TipWarmUp   = "Cold conditions, let the engine warm up and watch for icy patches."
	TipGeneric  = "Conditions look fine, drive safe and take breaks on long stretches."
)

// TravelTip derives a short advisory from the dominant condition and the
// average temperature. Condition-based tips win over temperature-based ones
// when both apply.
func TravelTip(cond Condition, tempC float64) string {
	switch cond {
	case ConditionRainy:
		return TipUmbrella
	case ConditionWindy:
		return TipGrip
	}

	switch {
	case tempC > 30:
		return TipCooling
	case tempC < 18:
		return TipWarmUp
	default:
		return TipGeneric
	}
}
