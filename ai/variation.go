package ai

// VariationStrategy chooses generation parameters per retry attempt so a
// rejected candidate is not regenerated under identical settings.
type VariationStrategy interface {
	OptionsFor(attempt int) Options
}

// TemperatureSchedule raises temperature linearly with each retry, capped
// so late retries stay coherent.
type TemperatureSchedule struct {
	Base      float64
	Step      float64
	Cap       float64
	MaxTokens int
}

// DefaultSchedule is the dialogue loop's stock strategy.
func DefaultSchedule() TemperatureSchedule {
	return TemperatureSchedule{
		Base:      0.7,
		Step:      0.15,
		Cap:       1.1,
		MaxTokens: 240,
	}
}

// OptionsFor returns the options for a zero-based attempt number.
func (t TemperatureSchedule) OptionsFor(attempt int) Options {
	temp := t.Base + t.Step*float64(attempt)
	if temp > t.Cap {
		temp = t.Cap
	}
	return Options{Temperature: temp, MaxTokens: t.MaxTokens}
}
