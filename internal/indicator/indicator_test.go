package indicator

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA_ExactWindow(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6}
	got, err := SMA(prices, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 5.0) {
		t.Errorf("expected mean of last 3 closes (5.0), got %f", got)
	}

	got, err = SMA(prices, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 3.5) {
		t.Errorf("expected 3.5, got %f", got)
	}
}

func TestSMA_InsufficientData(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 3)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := SMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for non-positive window")
	}
}

func TestRSI_StrictlyIncreasing(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	rsi, err := RSI(prices, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100.0 {
		t.Errorf("strictly increasing series should saturate RSI to 100, got %f", rsi)
	}
}

func TestRSI_StrictlyDecreasing(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 - float64(i)
	}
	rsi, err := RSI(prices, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 0.0 {
		t.Errorf("strictly decreasing series should give RSI 0, got %f", rsi)
	}
}

func TestRSI_FlatSeries(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100
	}
	rsi, err := RSI(prices, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 50.0 {
		t.Errorf("flat series has no momentum either way, want neutral 50, got %f", rsi)
	}
}

func TestRSI_InsufficientHistory(t *testing.T) {
	rsi, err := RSI([]float64{100, 101, 102}, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 50.0 {
		t.Errorf("short history should give neutral RSI 50, got %f", rsi)
	}
}

func TestRSI_Bounded(t *testing.T) {
	prices := []float64{100, 103, 99, 104, 98, 105, 97, 106, 96, 107, 95, 108, 94, 109, 93, 110}
	rsi, err := RSI(prices, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI out of [0,100]: %f", rsi)
	}
}

func TestBollinger_Envelope(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + 5*math.Sin(float64(i))
	}
	upper, lower, err := Bollinger(prices, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sma, _ := SMA(prices, 20)
	if upper < sma || sma < lower {
		t.Errorf("expected upper >= sma >= lower, got %f / %f / %f", upper, sma, lower)
	}
}

func TestBollinger_ConstantSeries(t *testing.T) {
	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 250
	}
	upper, lower, err := Bollinger(prices, 20, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(upper, 250) || !almostEqual(lower, 250) {
		t.Errorf("zero volatility should collapse bands onto the mean, got %f / %f", upper, lower)
	}
}

func TestBollinger_InsufficientData(t *testing.T) {
	_, _, err := Bollinger([]float64{1, 2, 3}, 20, 2)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestStdDev_KnownValues(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	// Population stddev of this series is exactly 2.
	if got := PopStdDev(values); !almostEqual(got, 2.0) {
		t.Errorf("expected population stddev 2.0, got %f", got)
	}
	sample := StdDev(values)
	if sample <= 2.0 {
		t.Errorf("sample stddev should exceed population stddev, got %f", sample)
	}
	if StdDev([]float64{5}) != 0 {
		t.Error("single value should give sample stddev 0")
	}
	if PopStdDev(nil) != 0 {
		t.Error("empty series should give population stddev 0")
	}
}
