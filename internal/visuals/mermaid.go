package visuals

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"kopstat/internal/analytics"
	"kopstat/internal/stats"
)

// maxChartPoints is roughly where Mermaid xychart starts overlapping axis labels.
const maxChartPoints = 60

// GenerateTrendChart creates a Mermaid xychart-beta with the observed series extended by its forecast,
// overlaid with the fitted regression line. labels name the observed points; forecast points are
// labelled "+1", "+2", ...
func GenerateTrendChart(title, yLabel string, labels []string, values []float64, trend stats.TrendResult, forecast []stats.ForecastPoint) string {
	if len(values) == 0 {
		return ""
	}

	var xs, actual, fitted []string
	maxY := 0.0
	total := len(values) + len(forecast)
	step := subsampleRate(total)

	for i := 0; i < total; i++ {
		if i%step != 0 && i != total-1 {
			continue
		}
		var v float64
		var label string
		if i < len(values) {
			v = values[i]
			label = fmt.Sprintf("%d", i+1)
			if i < len(labels) {
				label = labels[i]
			}
		} else {
			fp := forecast[i-len(values)]
			v = fp.Value
			label = fmt.Sprintf("+%d", fp.Period)
		}
		fit := math.Max(0, trend.Slope*float64(i)+trend.Intercept)

		xs = append(xs, quote(label))
		actual = append(actual, fmt.Sprintf("%.1f", v))
		fitted = append(fitted, fmt.Sprintf("%.1f", fit))
		maxY = math.Max(maxY, math.Max(v, fit))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %s\n", quote(title)))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(xs, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis %s 0 --> %d\n", quote(yLabel), yCeiling(maxY)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(actual, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(fitted, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateXmRChart creates a Mermaid xychart-beta for Process Stability (Individuals with average and limits).
func GenerateXmRChart(title, yLabel string, result stats.XmRResult, labels []string) string {
	if len(result.Values) == 0 {
		return ""
	}

	var xs, values, averages, unpls, lnpls []string
	step := subsampleRate(len(result.Values))
	for i, v := range result.Values {
		if i%step != 0 && i != len(result.Values)-1 {
			continue
		}
		label := fmt.Sprintf("%d", i+1)
		if i < len(labels) {
			label = labels[i]
		}
		xs = append(xs, quote(label))
		values = append(values, fmt.Sprintf("%.1f", v))
		averages = append(averages, fmt.Sprintf("%.1f", result.Average))
		unpls = append(unpls, fmt.Sprintf("%.1f", result.UNPL))
		lnpls = append(lnpls, fmt.Sprintf("%.1f", result.LNPL))
	}

	// Breathing room above the UNPL
	maxY := result.UNPL * 1.2
	for _, v := range result.Values {
		if v > maxY {
			maxY = v * 1.1
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title %s\n", quote(title)))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(xs, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis %s 0 --> %d\n", quote(yLabel), int(math.Ceil(math.Max(1, maxY)))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(averages, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(unpls, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(lnpls, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GeneratePeakHoursChart creates a Mermaid bar chart of transactions per hour of day, in clock order.
func GeneratePeakHoursChart(hours []analytics.PeakHour) string {
	if len(hours) == 0 {
		return ""
	}

	ordered := slices.Clone(hours)
	slices.SortFunc(ordered, func(a, b analytics.PeakHour) int { return a.Hour - b.Hour })

	var labels, values []string
	maxVal := 0
	for _, h := range ordered {
		labels = append(labels, fmt.Sprintf("\"%02d\"", h.Hour))
		values = append(values, fmt.Sprintf("%d", h.TransactionCount))
		maxVal = max(maxVal, h.TransactionCount)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Transactions by Hour of Day\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Transactions\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GeneratePeakDaysChart creates a Mermaid bar chart of average transactions per weekday, busiest first.
func GeneratePeakDaysChart(days []analytics.PeakDay) string {
	if len(days) == 0 {
		return ""
	}

	var labels, values []string
	maxVal := 0.0
	for _, d := range days {
		labels = append(labels, quote(d.DayName))
		values = append(values, fmt.Sprintf("%.2f", d.AverageTransactions))
		maxVal = math.Max(maxVal, d.AverageTransactions)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Average Transactions by Weekday\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Avg Transactions\" 0 --> %d\n", yCeiling(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

func subsampleRate(n int) int {
	if n <= maxChartPoints {
		return 1
	}
	return int(math.Ceil(float64(n) / maxChartPoints))
}

func yCeiling(maxY float64) int {
	return int(math.Ceil(math.Max(1, maxY*1.2)))
}

// quote makes a label safe for a Mermaid string literal.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "'") + `"`
}
