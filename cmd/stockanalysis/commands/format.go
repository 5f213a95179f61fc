package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ShrayBagga/StockAnalysis/internal/contracts"
)

// Common output styles shared by every command
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(16)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

// suggestionColors maps each suggestion to its display color
var suggestionColors = map[contracts.Suggestion]lipgloss.Color{
	contracts.SuggestionStrongBuy:  "#059669",
	contracts.SuggestionBuy:        "#10B981",
	contracts.SuggestionHold:       "#F59E0B",
	contracts.SuggestionSell:       "#F97316",
	contracts.SuggestionStrongSell: "#EF4444",
}

func suggestionStyle(s contracts.Suggestion) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	if c, ok := suggestionColors[s]; ok {
		style = style.Foreground(c)
	}
	return style
}

// renderReport formats one analysed ticker for the terminal
func renderReport(d *contracts.StockData, warnings []string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %s", d.Ticker, d.CompanyName)))
	b.WriteString("\n\n")

	quote := [][2]string{
		{"Price", formatPrice(d.CurrentPrice, d.Currency)},
		{"Change", formatChange(d.PriceChange, d.PercentChange)},
		{"Market Cap", formatLarge(d.MarketCap)},
		{"P/E (ttm/fwd)", fmt.Sprintf("%s / %s", formatFloat(d.PERatio), formatFloat(d.ForwardPE))},
		{"52W Range", fmt.Sprintf("%s - %s", formatFloat(d.FiftyTwoWeekLow), formatFloat(d.FiftyTwoWeekHigh))},
		{"Analysts", fmt.Sprintf("%s, target %s", d.AnalystRecommendation, formatFloat(d.AnalystTargetPrice))},
	}
	for _, row := range quote {
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(row[1])
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Overall"))
	b.WriteString(suggestionStyle(d.Suggestion).Render(fmt.Sprintf("%d  %s", d.OverallScore, d.Suggestion)))
	b.WriteString("\n")

	breakdown := []struct {
		label string
		score int
	}{
		{"Analyst Rating", d.ScoreBreakdown.AnalystRating},
		{"Analyst Upside", d.ScoreBreakdown.AnalystUpside},
		{"Financials", d.ScoreBreakdown.FinancialAnalysis},
		{"Technicals", d.ScoreBreakdown.TechnicalAnalysis},
	}
	for _, row := range breakdown {
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(fmt.Sprintf("%d", row.score))
		b.WriteString("\n")
	}

	if len(d.Reasons) > 0 {
		b.WriteString("\n")
		for _, r := range d.Reasons {
			b.WriteString("• ")
			b.WriteString(r)
			b.WriteString("\n")
		}
	}

	for _, w := range warnings {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("! " + w))
	}

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderFailure formats the user-facing messages of a failed lookup
func renderFailure(ticker string, details []string) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", ticker)))
	for _, d := range details {
		b.WriteString("\n  ")
		b.WriteString(d)
	}
	return b.String()
}

// renderList prints a titled ticker list, or a placeholder when empty
func renderList(title string, tickers []string) string {
	body := "(empty)"
	if len(tickers) > 0 {
		body = strings.Join(tickers, "  ")
	}
	return titleStyle.Render(title) + "\n" + body
}

func formatFloat(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatPrice(v *float64, currency string) string {
	if v == nil {
		return "N/A"
	}
	if currency == "" {
		return fmt.Sprintf("%.2f", *v)
	}
	return fmt.Sprintf("%.2f %s", *v, currency)
}

func formatChange(change, percent *float64) string {
	if change == nil || percent == nil {
		return "N/A"
	}

	text := fmt.Sprintf("%+.2f (%+.2f%%)", *change, *percent)
	switch {
	case *change > 0:
		return successStyle.Render(text)
	case *change < 0:
		return errorStyle.Render(text)
	default:
		return text
	}
}

// formatLarge renders market caps as 2.95T / 812.40B / 3.10M
func formatLarge(v *float64) string {
	if v == nil {
		return "N/A"
	}

	n := *v
	switch {
	case n >= 1e12:
		return fmt.Sprintf("%.2fT", n/1e12)
	case n >= 1e9:
		return fmt.Sprintf("%.2fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.2fM", n/1e6)
	default:
		return fmt.Sprintf("%.0f", n)
	}
}
