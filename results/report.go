package results

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	boxStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
)

// Report renders the summary as a table, followed by a plot of correct
// reaction times over the experiment trials.
func Report(partID string, s Summary, rows []Row) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Stroop results: "+partID) + "\n\n")
	b.WriteString(headStyle.Render(fmt.Sprintf("%-12s %6s %8s %7s %7s %9s %9s",
		"condition", "trials", "correct", "errors", "misses", "accuracy", "mean rt")) + "\n")

	names := make([]string, 0, len(s.Conditions))
	for name := range s.Conditions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(statsLine(name, s.Conditions[name]) + "\n")
	}
	b.WriteString(statsLine("all", s.Overall) + "\n")

	if s.StroopEffect != nil {
		b.WriteString("\n" + headStyle.Render("stroop effect: ") +
			goodStyle.Render(fmt.Sprintf("%.0f ms", *s.StroopEffect*1000)) + "\n")
	}

	var rts []float64
	for _, r := range rows {
		if !r.Training() && r.Correctness == CodeCorrect {
			rts = append(rts, r.RT*1000)
		}
	}
	if len(rts) > 1 {
		graph := asciigraph.Plot(rts,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("reaction time of correct trials (ms)"),
		)
		b.WriteString("\n" + graph + "\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func statsLine(name string, c ConditionStats) string {
	return valueStyle.Render(fmt.Sprintf("%-12s %6d %8d %7d %7d %8.1f%% %7.0fms",
		name, c.Trials, c.Correct, c.Errors, c.Misses, c.Accuracy*100, c.MeanRT*1000))
}
