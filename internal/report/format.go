package report

import (
	"fmt"
	"strings"

	"StockDesk/internal/model"
	"StockDesk/internal/portfolio"
)

// FormatQuote formats the current quote and indicator snapshot for display.
func FormatQuote(res *model.FetchResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s: %s%.2f", res.Symbol, res.Currency, res.Price))
	if res.Fallback {
		b.WriteString(" (synthetic)")
	}
	b.WriteString("\n")

	ind := res.Indicators
	b.WriteString(fmt.Sprintf("  SMA20: %s | SMA50: %s | SMA200: %s\n",
		fmtOptional(ind.SMA20), fmtOptional(ind.SMA50), fmtOptional(ind.SMA200)))
	b.WriteString(fmt.Sprintf("  RSI(14): %.1f\n", ind.RSI14))
	if ind.BollingerUpper != nil && ind.BollingerLower != nil {
		b.WriteString(fmt.Sprintf("  Bollinger: %.2f / %.2f\n", *ind.BollingerUpper, *ind.BollingerLower))
	}
	return b.String()
}

func fmtOptional(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

// FormatRecommendation formats a scored recommendation with its component
// breakdown.
func FormatRecommendation(rec *model.Recommendation) string {
	if rec == nil {
		return "no recommendation available\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %s (score %+.2f)\n", rec.Symbol, rec.Label, rec.Score))
	for _, f := range rec.Factors {
		b.WriteString(fmt.Sprintf("  %s: %+.2f (%s)\n", f.Name, f.Score, f.Commentary))
	}
	b.WriteString(fmt.Sprintf("  target price: %.2f\n", rec.TargetPrice))
	return b.String()
}

// FormatPortfolio formats a portfolio valuation snapshot.
func FormatPortfolio(v *portfolio.Valuation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("cash balance: %.2f\n", v.Balance))
	for _, p := range v.Positions {
		b.WriteString(fmt.Sprintf("  %s: %d shares @ %.2f = %.2f (P/L %+.2f)\n",
			p.Position.Symbol, p.Position.Shares, p.Price, p.MarketValue, p.ProfitLoss))
	}
	b.WriteString(fmt.Sprintf("holdings value: %.2f\n", v.HoldingsValue))
	b.WriteString(fmt.Sprintf("total assets: %.2f (P/L %+.2f)\n", v.TotalAssets, v.ProfitLoss))
	return b.String()
}
