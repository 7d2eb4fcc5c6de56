package models

// ProfileEntry names one indicator and the weight it carries in the
// technical strength score. Weight is in (0,1].
type ProfileEntry struct {
	Indicator string
	Weight    float64
}

// IndicatorProfile is the per-symbol, externally sourced list of
// frequency-weighted indicators. Entries are ordered by decreasing weight.
// Profiles are forward-compatible allow-lists: entries naming indicators
// the engine does not implement are skipped, not rejected.
type IndicatorProfile struct {
	Symbol  string
	Entries []ProfileEntry
	// Fallback marks the default profile used when a symbol has no
	// entry in the external table.
	Fallback bool
}
