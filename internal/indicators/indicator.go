package indicators

// Indicator enumerates the supported technical indicators. Profiles refer
// to indicators by name; unrecognized names simply fail to parse and are
// skipped, which keeps externally sourced profiles forward-compatible.
type Indicator int

const (
	ATRRatio Indicator = iota
	Returns
	ReturnsStd50
	ReturnsStd20
	ReturnsStd10
	ReturnsMean50
	ReturnsMean20
	ReturnsMean10
	VolumeMean50
	VolumeMean20
	VolumeMean10
	VolumeStd50
	VolumeStd20
	VolumeStd10
	MACD
	MACDSignal
	MACDHist
	RSI
	RSI7
	BBWidth
	BBPosition
	HighLowRatio
	CloseOpenRatio
	VolumeRatio
	PriceSMA7Ratio
	PriceSMA25Ratio
	SMA7SMA25Ratio
)

var indicatorNames = map[Indicator]string{
	ATRRatio:        "atr_ratio",
	Returns:         "returns",
	ReturnsStd50:    "returns_std_50",
	ReturnsStd20:    "returns_std_20",
	ReturnsStd10:    "returns_std_10",
	ReturnsMean50:   "returns_mean_50",
	ReturnsMean20:   "returns_mean_20",
	ReturnsMean10:   "returns_mean_10",
	VolumeMean50:    "volume_mean_50",
	VolumeMean20:    "volume_mean_20",
	VolumeMean10:    "volume_mean_10",
	VolumeStd50:     "volume_std_50",
	VolumeStd20:     "volume_std_20",
	VolumeStd10:     "volume_std_10",
	MACD:            "macd",
	MACDSignal:      "macd_signal",
	MACDHist:        "macd_hist",
	RSI:             "rsi",
	RSI7:            "rsi_7",
	BBWidth:         "bb_width",
	BBPosition:      "bb_position",
	HighLowRatio:    "high_low_ratio",
	CloseOpenRatio:  "close_open_ratio",
	VolumeRatio:     "volume_ratio",
	PriceSMA7Ratio:  "price_sma7_ratio",
	PriceSMA25Ratio: "price_sma25_ratio",
	SMA7SMA25Ratio:  "sma7_sma25_ratio",
}

var indicatorsByName = func() map[string]Indicator {
	m := make(map[string]Indicator, len(indicatorNames))
	for ind, name := range indicatorNames {
		m[name] = ind
	}
	return m
}()

// String returns the canonical profile name of the indicator.
func (i Indicator) String() string { return indicatorNames[i] }

// Parse resolves a profile name to an indicator. The second return is
// false for names the engine does not implement.
func Parse(name string) (Indicator, bool) {
	ind, ok := indicatorsByName[name]
	return ind, ok
}
