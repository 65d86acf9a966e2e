package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"siteE2E/internal/suite"
)

// FormatStatus возвращает иконку, цвет и текст для статуса сценария или прогона.
func FormatStatus(status string) (icon, color, text string) {
	switch status {
	case string(suite.StatusPassed):
		return IconCheckmark, ColorGreen, "успешно"
	case string(suite.StatusFailed):
		return IconCross, ColorRed, "провален"
	case string(suite.StatusSkipped):
		return IconSkip, ColorYellow, "пропущен"
	case string(suite.StatusRunning):
		return IconPlay, ColorCyan, "выполняется"
	default:
		return IconPlay, ColorGray, status
	}
}

// FormatDuration округляет длительность до понятной в отчете точности.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

// PrintResult печатает строку сценария, а для провала - ошибку и скриншот.
func PrintResult(w io.Writer, r suite.Result) {
	icon, color, _ := FormatStatus(string(r.Status))
	fmt.Fprintf(w, "%s%s%s %s %s(%s)%s\n", color, icon, ColorReset, r.Scenario, ColorGray, FormatDuration(r.Duration), ColorReset)

	switch r.Status {
	case suite.StatusFailed:
		fmt.Fprintf(w, "    %s%s%s\n", ColorRed, r.ErrorText(), ColorReset)
		if r.Screenshot != "" {
			fmt.Fprintf(w, "    %s %s\n", IconCamera, r.Screenshot)
		}
	case suite.StatusSkipped:
		fmt.Fprintf(w, "    %s%s%s\n", ColorGray, r.ErrorText(), ColorReset)
	}

	if len(r.Metrics) > 0 {
		fmt.Fprintf(w, "    %s %s\n", IconChart, formatMetrics(r.Metrics))
	}
}

func formatMetrics(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, m[k]))
	}
	return strings.Join(parts, " ")
}

// PrintSummary печатает все результаты и итог прогона.
func PrintSummary(w io.Writer, s suite.Summary) {
	fmt.Fprintln(w)
	for _, r := range s.Results {
		PrintResult(w, r)
	}

	icon, color, text := FormatStatus(string(s.Status()))
	fmt.Fprintf(w, "\n%s%s %s%s: %d успешно, %d провалено, %d пропущено за %s\n",
		ColorBold+color, icon, text, ColorReset, s.Passed, s.Failed, s.Skipped, FormatDuration(s.Duration()))
	fmt.Fprintf(w, "%sпрогон %s%s\n", ColorGray, s.RunID, ColorReset)
}
