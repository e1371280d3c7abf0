package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bundlegraph/pkg/engine"
)

var (
	colName   = lipgloss.NewStyle().Width(24)
	colKind   = lipgloss.NewStyle().Width(20).Foreground(colorGray)
	colStatus = lipgloss.NewStyle().Width(10)
)

// statusCell returns the icon and styled status word for a node result.
func statusCell(res engine.NodeResult) (string, string) {
	switch res.Status {
	case engine.StatusCached:
		if res.Built {
			return styleIconSuccess.Render(iconSuccess), styleBuilt.Render("built")
		}
		return styleCached.Render(iconCached), styleCached.Render("cached")
	case engine.StatusFailed:
		return styleIconError.Render(iconError), styleFailed.Render("failed")
	case engine.StatusPrepared:
		return stylePrepared.Render(iconInfo), stylePrepared.Render("prepared")
	default:
		return styleIconWarning.Render(iconWarning), styleBlocked.Render(string(res.Status))
	}
}

// printReport prints one line per node followed by failures and a summary.
func printReport(w io.Writer, rep *engine.Report) {
	title := "Build"
	if rep.Preview {
		title = "Preview"
	}
	fmt.Fprintln(w, styleTitle.Render(title)+" "+styleValue.Render(rep.Graph)+
		styleDim.Render(" for ")+styleNumber.Render(string(rep.Target)))

	for _, res := range rep.Nodes {
		icon, status := statusCell(res)
		line := fmt.Sprintf("%s %s %s %s", icon, colName.Render(res.Name), colKind.Render(string(res.Kind)), colStatus.Render(status))
		if res.Built {
			line += styleDim.Render(res.Duration.Round(time.Millisecond).String())
		}
		if res.Dirty && res.Reason != "" {
			line += styleDim.Render(" (" + res.Reason + ")")
		}
		if n := outputCount(res); n > 0 {
			line += styleDim.Render(fmt.Sprintf(" %s %d assets", iconArrow, n))
		}
		fmt.Fprintln(w, line)
	}

	for _, f := range rep.Errors {
		printError(w, "%s: %s", f.Name, f.Message)
		printDetail(w, "%s %s", f.Code, f.NodeID)
	}

	parts := []string{styleDim.Render(fmt.Sprintf("%d nodes", len(rep.Nodes)))}
	if rep.Preview {
		parts = append(parts, stylePrepared.Render(fmt.Sprintf("%d prepared", rep.Count(engine.StatusPrepared))))
	} else {
		parts = append(parts,
			styleBuilt.Render(fmt.Sprintf("%d built", rep.BuildCount())),
			styleCached.Render(fmt.Sprintf("%d cached", rep.Count(engine.StatusCached)-rep.BuildCount())))
	}
	if n := rep.Count(engine.StatusFailed); n > 0 {
		parts = append(parts, styleFailed.Render(fmt.Sprintf("%d failed", n)))
	}
	if n := rep.Count(engine.StatusBlocked); n > 0 {
		parts = append(parts, styleBlocked.Render(fmt.Sprintf("%d blocked", n)))
	}
	if rep.Aborted {
		parts = append(parts, styleBlocked.Render(fmt.Sprintf("%d aborted", rep.Count(engine.StatusAborted))))
	}
	parts = append(parts, styleDim.Render(rep.Duration.Round(time.Millisecond).String()))
	printStats(w, parts...)
}

// outputCount sums the references a node emitted across connections.
func outputCount(res engine.NodeResult) int {
	n := 0
	for _, gs := range res.Outputs {
		n += gs.Count()
	}
	return n
}
