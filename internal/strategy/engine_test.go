package strategy

import (
	"math"
	"testing"
	"time"

	"StockDesk/internal/indicator"
	"StockDesk/internal/model"
)

func f64(v float64) *float64 { return &v }

// fixtureResult builds a FetchResult with engineered indicator values over
// a flat 30-bar series.
func fixtureResult(price float64, snap model.IndicatorSnapshot, volumes []float64) *model.FetchResult {
	n := 30
	if len(volumes) > 0 {
		n = len(volumes)
	}
	bars := make([]model.OHLCV, n)
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		vol := 100000.0
		if len(volumes) > 0 {
			vol = volumes[i]
		}
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price * 1.01,
			Low:    price * 0.99,
			Close:  price,
			Volume: vol,
		}
	}
	return &model.FetchResult{
		Symbol:     "RELIANCE.NS",
		Period:     model.Period1Mo,
		Price:      price,
		Currency:   "₹",
		Bars:       bars,
		Indicators: snap,
	}
}

func surgeVolumes(n int) []float64 {
	volumes := make([]float64, n)
	for i := range volumes {
		volumes[i] = 100000
	}
	volumes[n-1] = 200000 // 2x the trailing mean
	return volumes
}

func TestEvaluate_AllBullishComponents(t *testing.T) {
	res := fixtureResult(950, model.IndicatorSnapshot{
		SMA20:          f64(1000),
		SMA50:          f64(1100),
		SMA200:         f64(1050),
		RSI14:          25,
		BollingerUpper: f64(1060),
		BollingerLower: f64(950),
	}, surgeVolumes(30))

	rec := Evaluate(res)
	if rec == nil {
		t.Fatal("expected non-nil recommendation")
	}
	if math.Abs(rec.Score-1.0) > 1e-9 {
		t.Errorf("expected component sum 1.0 (0.3+0.25+0.25+0.2), got %f", rec.Score)
	}
	if rec.Label != model.StrongBuy {
		t.Errorf("expected Strong Buy, got %s", rec.Label)
	}

	sigma := indicator.PopStdDev(res.Closes())
	want := 1000 + 0.7*sigma
	if math.Abs(rec.TargetPrice-want) > 1e-9 {
		t.Errorf("expected target %f, got %f", want, rec.TargetPrice)
	}
}

func TestEvaluate_NeutralIsHoldAtCurrentPrice(t *testing.T) {
	res := fixtureResult(1000, model.IndicatorSnapshot{
		SMA20:          f64(1000),
		SMA50:          f64(1000),
		SMA200:         f64(1000),
		RSI14:          50,
		BollingerUpper: f64(1050),
		BollingerLower: f64(950),
	}, nil)

	rec := Evaluate(res)
	if rec.Score != 0 {
		t.Errorf("expected score 0, got %f", rec.Score)
	}
	if rec.Label != model.Hold {
		t.Errorf("expected Hold, got %s", rec.Label)
	}
	if rec.TargetPrice != 1000 {
		t.Errorf("Hold target must equal the current price exactly, got %f", rec.TargetPrice)
	}
}

func TestEvaluate_AllBearishComponents(t *testing.T) {
	res := fixtureResult(1100, model.IndicatorSnapshot{
		SMA20:          f64(1000),
		SMA50:          f64(950),
		SMA200:         f64(1050),
		RSI14:          80,
		BollingerUpper: f64(1080),
		BollingerLower: f64(920),
	}, nil)

	rec := Evaluate(res)
	if math.Abs(rec.Score-(-0.8)) > 1e-9 {
		t.Errorf("expected component sum -0.8, got %f", rec.Score)
	}
	if rec.Label != model.StrongSell {
		t.Errorf("expected Strong Sell, got %s", rec.Label)
	}
}

func TestMapLabel_AllBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  model.RecommendationLabel
	}{
		{1.0, model.StrongBuy},
		{0.5, model.StrongBuy},
		{0.49, model.Buy},
		{0.15, model.Buy},
		{0.14, model.Hold},
		{0.0, model.Hold},
		{-0.14, model.Hold},
		{-0.15, model.Sell},
		{-0.49, model.Sell},
		{-0.5, model.StrongSell},
		{-1.05, model.StrongSell},
	}
	for _, tt := range tests {
		if got := mapLabel(tt.score); got != tt.want {
			t.Errorf("score %.2f: expected %s, got %s", tt.score, tt.want, got)
		}
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	res := fixtureResult(975, model.IndicatorSnapshot{
		SMA20:          f64(990),
		SMA50:          f64(1010),
		SMA200:         f64(995),
		RSI14:          42,
		BollingerUpper: f64(1040),
		BollingerLower: f64(940),
	}, surgeVolumes(25))

	a := Evaluate(res)
	b := Evaluate(res)
	if a.Score != b.Score || a.Label != b.Label || a.TargetPrice != b.TargetPrice {
		t.Errorf("scorer must be deterministic: %+v vs %+v", a, b)
	}
}

func TestEvaluate_VolumeSurgeRules(t *testing.T) {
	// The surge threshold is strictly more than 1.5x the trailing-10 mean.
	// With nine 100000 bars, the latest volume crosses it at ~158824.
	volumes := make([]float64, 30)
	for i := range volumes {
		volumes[i] = 100000
	}
	volumes[29] = 158000
	if f := scoreVolumeSurge(volumes); f.Score != 0 {
		t.Errorf("volume just below the surge threshold must not score, got %f", f.Score)
	}
	volumes[29] = 160000
	if f := scoreVolumeSurge(volumes); f.Score != 0.2 {
		t.Errorf("volume above the surge threshold must score 0.2, got %f", f.Score)
	}

	// Fewer than 10 points: component unscored.
	if s := scoreVolumeSurge([]float64{1, 2, 3}); s.Score != 0 {
		t.Errorf("short volume history must not score, got %f", s.Score)
	}
}

func TestEvaluate_MissingIndicatorsFallBack(t *testing.T) {
	// No indicators defined: SMAs substitute the current price, bands fall
	// back to a 5% envelope, RSI neutral.
	res := fixtureResult(500, model.IndicatorSnapshot{RSI14: 50}, nil)
	rec := Evaluate(res)
	if rec == nil {
		t.Fatal("expected non-nil recommendation")
	}
	if rec.Score != 0 || rec.Label != model.Hold {
		t.Errorf("expected neutral result, got score=%f label=%s", rec.Score, rec.Label)
	}
}

func TestEvaluate_NilInput(t *testing.T) {
	if Evaluate(nil) != nil {
		t.Error("nil input must yield nil recommendation")
	}
	if Evaluate(&model.FetchResult{}) != nil {
		t.Error("empty series must yield nil recommendation")
	}
}
