package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pipecalc/pipecalc/internal/criteria"
	"github.com/pipecalc/pipecalc/internal/pipe"
)

const (
	banner = "═══════════════════════════════════════════════════════════════"
	rule   = "───────────────────────────────────────────────────────────────"
)

func printHeader(title string) {
	fmt.Println()
	fmt.Println(banner)
	fmt.Printf("     %s\n", title)
	fmt.Println(banner)
	fmt.Println()
}

func printSection(title string) {
	fmt.Println(title)
	fmt.Println(rule)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func verdictMark(v criteria.Verdict) string {
	switch v {
	case criteria.Pass:
		return "✓"
	case criteria.Fail:
		return "✗"
	default:
		return "·"
	}
}

func printChecks(checks []criteria.Check) {
	if len(checks) == 0 {
		return
	}
	printSection("CRITERIA CHECKS:")
	w := newTable()
	fmt.Fprintf(w, "  Check\tValue\tLimit\tVerdict\n")
	for _, c := range checks {
		name := c.Name
		if c.Band != "" {
			name += " (" + c.Band + ")"
		}
		limit := "-"
		if c.Limit != nil {
			limit = fmt.Sprintf("%.4g %s", *c.Limit, c.Unit)
		}
		fmt.Fprintf(w, "  %s\t%.4g %s\t%s\t%s %s\n",
			name, c.Value, c.Unit, limit, verdictMark(c.Verdict), c.Verdict)
	}
	w.Flush()
	fmt.Println()
}

func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	printSection("WARNINGS:")
	for _, warn := range warnings {
		fmt.Printf("  ! %s\n", warn)
	}
	fmt.Println()
}

// parseFittings turns "elbow-90-lr:4,gate-valve:2" into fitting counts.
func parseFittings(spec string) ([]pipe.FittingCount, error) {
	if spec == "" {
		return nil, nil
	}
	var out []pipe.FittingCount
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kind, countStr, ok := strings.Cut(part, ":")
		count := 1
		if ok {
			n, err := strconv.Atoi(strings.TrimSpace(countStr))
			if err != nil {
				return nil, fmt.Errorf("fitting count %q: %v", part, err)
			}
			count = n
		}
		out = append(out, pipe.FittingCount{Type: kind, Count: count})
	}
	return out, nil
}
