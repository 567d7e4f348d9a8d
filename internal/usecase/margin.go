package usecase

// DefaultSampleMarginPercent applies when neither the client nor the system
// configuration defines a sample margin.
const DefaultSampleMarginPercent = 80.0

// SampleMarginKey is the system_config key holding the operator default.
const SampleMarginKey = "sample_margin_percent"

// ResolveSampleMargin picks the sample margin percentage. Tiers are consulted
// strictly in order: client override, then system default, then the hardcoded
// fallback. A later tier is only read when the previous one is nil.
func ResolveSampleMargin(clientOverride, systemDefault *float64) float64 {
	if clientOverride != nil {
		return *clientOverride
	}
	if systemDefault != nil {
		return *systemDefault
	}
	return DefaultSampleMarginPercent
}

// ClientSampleFee derives the client-facing sample fee from the manufacturer
// fee and a margin percentage.
func ClientSampleFee(manufacturerFee, marginPercent float64) float64 {
	return manufacturerFee * (1 + marginPercent/100)
}
