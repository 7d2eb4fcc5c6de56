package indicators

import (
	"math"

	"CoinScout/internal/domain/models"
)

// Compute evaluates every indicator named in the profile against the
// candle window and returns the latest value of each. Indicators whose
// history requirement exceeds the window are omitted, not zero-filled;
// names the engine does not implement are skipped without error. Values
// are recomputed from the window each cycle; the series struct only
// memoizes the shared base series within a single call.
func Compute(window []models.Candle, profile models.IndicatorProfile) models.IndicatorValues {
	out := make(models.IndicatorValues, len(profile.Entries))
	if len(window) == 0 {
		return out
	}

	s := newSeries(window)
	for _, entry := range profile.Entries {
		ind, ok := Parse(entry.Indicator)
		if !ok {
			continue
		}
		if _, seen := out[entry.Indicator]; seen {
			continue
		}
		if v, ok := s.value(ind); ok {
			out[entry.Indicator] = v
		}
	}
	return out
}

// series holds the base series derived from one window, shared by the
// individual indicator computations.
type series struct {
	candles []models.Candle
	closes  []float64
	volumes []float64
	returns []float64 // fractional close-over-close changes

	macdLine   float64
	macdSignal float64
	macdOK     bool
	macdDone   bool
}

func newSeries(window []models.Candle) *series {
	closes := make([]float64, len(window))
	volumes := make([]float64, len(window))
	for i, c := range window {
		closes[i] = c.Close
		volumes[i] = c.Volume
	}
	returns := make([]float64, 0, len(window))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	return &series{candles: window, closes: closes, volumes: volumes, returns: returns}
}

func (s *series) value(ind Indicator) (float64, bool) {
	last := s.candles[len(s.candles)-1]
	switch ind {
	case Returns:
		return lastOf(s.returns)
	case ReturnsStd50:
		return rollingStd(s.returns, 50)
	case ReturnsStd20:
		return rollingStd(s.returns, 20)
	case ReturnsStd10:
		return rollingStd(s.returns, 10)
	case ReturnsMean50:
		return rollingMean(s.returns, 50)
	case ReturnsMean20:
		return rollingMean(s.returns, 20)
	case ReturnsMean10:
		return rollingMean(s.returns, 10)
	case VolumeMean50:
		return rollingMean(s.volumes, 50)
	case VolumeMean20:
		return rollingMean(s.volumes, 20)
	case VolumeMean10:
		return rollingMean(s.volumes, 10)
	case VolumeStd50:
		return rollingStd(s.volumes, 50)
	case VolumeStd20:
		return rollingStd(s.volumes, 20)
	case VolumeStd10:
		return rollingStd(s.volumes, 10)
	case ATRRatio:
		return s.atrRatio(14)
	case MACD:
		m, _, ok := s.macd()
		return m, ok
	case MACDSignal:
		_, sig, ok := s.macd()
		return sig, ok
	case MACDHist:
		m, sig, ok := s.macd()
		return m - sig, ok
	case RSI:
		return wilderRSI(s.closes, 14)
	case RSI7:
		return wilderRSI(s.closes, 7)
	case BBWidth:
		w, _, ok := s.bollinger(20, 2)
		return w, ok
	case BBPosition:
		_, pos, ok := s.bollinger(20, 2)
		return pos, ok
	case HighLowRatio:
		if last.Low == 0 {
			return 0, false
		}
		return last.High / last.Low, true
	case CloseOpenRatio:
		if last.Open == 0 {
			return 0, false
		}
		return last.Close / last.Open, true
	case VolumeRatio:
		mean, ok := rollingMean(s.volumes, 20)
		if !ok || mean == 0 {
			return 0, false
		}
		return last.Volume / mean, true
	case PriceSMA7Ratio:
		return s.priceSMARatio(7)
	case PriceSMA25Ratio:
		return s.priceSMARatio(25)
	case SMA7SMA25Ratio:
		fast, ok1 := rollingMean(s.closes, 7)
		slow, ok2 := rollingMean(s.closes, 25)
		if !ok1 || !ok2 || slow == 0 {
			return 0, false
		}
		return fast / slow, true
	default:
		return 0, false
	}
}

func (s *series) priceSMARatio(period int) (float64, bool) {
	sma, ok := rollingMean(s.closes, period)
	if !ok || sma == 0 {
		return 0, false
	}
	return s.closes[len(s.closes)-1] / sma, true
}

// atrRatio is the average true range over the period divided by the
// latest close. True range needs a previous close, so period+1 candles
// are required.
func (s *series) atrRatio(period int) (float64, bool) {
	if len(s.candles) < period+1 {
		return 0, false
	}
	lastClose := s.closes[len(s.closes)-1]
	if lastClose == 0 {
		return 0, false
	}
	var sum float64
	for i := len(s.candles) - period; i < len(s.candles); i++ {
		c := s.candles[i]
		prevClose := s.candles[i-1].Close
		tr := c.High - c.Low
		if hc := math.Abs(c.High - prevClose); hc > tr {
			tr = hc
		}
		if lc := math.Abs(c.Low - prevClose); lc > tr {
			tr = lc
		}
		sum += tr
	}
	return sum / float64(period) / lastClose, true
}

// macd returns the latest MACD(12,26) line and its 9-period signal line.
// The pair is computed once per window; the line, signal and histogram
// lookups all share the cached result.
func (s *series) macd() (line, signal float64, ok bool) {
	if s.macdDone {
		return s.macdLine, s.macdSignal, s.macdOK
	}
	s.macdDone = true

	const fast, slow, span = 12, 26, 9
	if len(s.closes) < slow {
		return 0, 0, false
	}
	emaFast := emaSeries(s.closes, fast)
	emaSlow := emaSeries(s.closes, slow)
	macd := make([]float64, len(s.closes))
	for i := range macd {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	sig := emaSeries(macd, span)
	s.macdLine, s.macdSignal, s.macdOK = macd[len(macd)-1], sig[len(sig)-1], true
	return s.macdLine, s.macdSignal, s.macdOK
}

// bollinger returns the 20-period band width and the latest close's
// position within the bands.
func (s *series) bollinger(period int, k float64) (width, position float64, ok bool) {
	mid, ok1 := rollingMean(s.closes, period)
	std, ok2 := rollingStd(s.closes, period)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	upper := mid + k*std
	lower := mid - k*std
	if mid == 0 || upper == lower {
		return 0, 0, false
	}
	width = (upper - lower) / mid
	position = (s.closes[len(s.closes)-1] - lower) / (upper - lower)
	return width, position, true
}

// emaSeries computes an exponential moving average with alpha=2/(span+1),
// seeded from the first value.
func emaSeries(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// wilderRSI computes the Wilder-smoothed relative strength index.
func wilderRSI(closes []float64, period int) (float64, bool) {
	if len(closes) < period+1 {
		return 0, false
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

func rollingMean(xs []float64, period int) (float64, bool) {
	if period <= 0 || len(xs) < period {
		return 0, false
	}
	var sum float64
	for i := len(xs) - period; i < len(xs); i++ {
		sum += xs[i]
	}
	return sum / float64(period), true
}

// rollingStd is the sample standard deviation of the last period values.
func rollingStd(xs []float64, period int) (float64, bool) {
	if period < 2 || len(xs) < period {
		return 0, false
	}
	mean, _ := rollingMean(xs, period)
	var sq float64
	for i := len(xs) - period; i < len(xs); i++ {
		d := xs[i] - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(period-1)), true
}

func lastOf(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	return xs[len(xs)-1], true
}
