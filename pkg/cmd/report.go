package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/gofirrtl/resetinfer/pkg/diag"
	"github.com/gofirrtl/resetinfer/pkg/resets"
)

// diagnosticWidth returns the column width diagnostic text should wrap to,
// falling back to 80 when stdout isn't a terminal.
func diagnosticWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 80
	}

	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}

	return w
}

// printBanner draws a colored phase banner, in the spirit of the pack's
// compiler-message banners (ComedicChimera-chai's displayBeginPhase).
func printBanner(phase string) {
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgBlue)).
		WithMargin(1).
		Println(phase)
}

// PrintSuccess renders a short summary table of what the pass did.
func PrintSuccess(result *resets.Result) {
	pterm.Success.Println("reset inference and materialization completed")

	async, sync := 0, 0
	for _, net := range result.Nets {
		switch net.Kind {
		case resets.Async:
			async++
		case resets.Sync:
			sync++
		}
	}

	implemented := 0
	for _, plan := range result.Plans {
		if plan.Reset != nil {
			implemented++
		}
	}

	table := pterm.TableData{
		{"metric", "count"},
		{"reset networks", fmt.Sprintf("%d", len(result.Nets))},
		{"  async", fmt.Sprintf("%d", async)},
		{"  sync", fmt.Sprintf("%d", sync)},
		{"modules with a reset domain", fmt.Sprintf("%d", implemented)},
	}

	pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}

// PrintDiagnostics renders every diagnostic recorded by rep, wrapping long
// messages to the current terminal width.
func PrintDiagnostics(rep *diag.Reporter) {
	width := diagnosticWidth()

	for _, d := range rep.Diagnostics() {
		header := fmt.Sprintf("[%s] %s", d.Class, d.Loc)
		pterm.Error.Println(header)
		pterm.Println(wrap(d.Message, width))

		for _, n := range d.Notes {
			pterm.Info.Printfln("  note: %s: %s", n.Loc, wrap(n.Message, width-9))
		}
	}
}

// wrap performs a simple greedy word wrap at width columns.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	var b strings.Builder
	lineLen := 0

	for i, w := range words {
		if i > 0 {
			if lineLen+1+len(w) > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}

		b.WriteString(w)
		lineLen += len(w)
	}

	return b.String()
}
