package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	passStyle   = color.New(color.FgGreen, color.Bold)
	failStyle   = color.New(color.FgRed, color.Bold)
	headerStyle = color.New(color.Bold, color.FgHiWhite)
	faintStyle  = color.New(color.Faint)
)

// SummaryRenderer renders the scenario results of a suite run
type SummaryRenderer struct {
	out io.Writer
}

// NewSummaryRenderer creates a new summary renderer
func NewSummaryRenderer(out io.Writer) *SummaryRenderer {
	return &SummaryRenderer{out: out}
}

// Render prints one row per scenario that ran, followed by the resolved pairs
func (r *SummaryRenderer) Render(result *usecase.RunSuiteResult) error {
	if result == nil || result.Report == nil || len(result.Report.Results) == 0 {
		return nil
	}
	report := result.Report
	title := cases.Title(language.English)

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, headerStyle.Sprint("Summary"))

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"Scenario", "Result", "Gateway", "Chains", "Duration"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
	})

	for _, res := range report.Results {
		status := passStyle.Sprint("PASS")
		if !res.Passed() {
			status = failStyle.Sprint("FAIL")
		}
		chains := strings.Join(lo.Map(res.Chains, func(id uint64, _ int) string { return fmt.Sprint(id) }), ", ")
		t.AppendRow(table.Row{
			title.String(string(res.Scenario)),
			status,
			shortAddress(res.Gateway),
			chains,
			FormatDuration(res.Duration),
		})
	}
	fmt.Fprintln(r.out, t.Render())

	r.renderPairs(report.Results)

	passed := lo.CountBy(report.Results, func(res domain.ScenarioResult) bool { return res.Passed() })
	fmt.Fprintf(r.out, "\n%d/%d scenarios passed in %s\n", passed, len(report.Results), FormatDuration(report.Duration))
	return nil
}

func (r *SummaryRenderer) renderPairs(results []domain.ScenarioResult) {
	withPairs := lo.Filter(results, func(res domain.ScenarioResult, _ int) bool { return len(res.Pairs) > 0 })
	if len(withPairs) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"Scenario", "Role", "Chain", "Forwarder", "Onchain"})
	for _, res := range withPairs {
		pairs := append([]domain.ForwarderPair(nil), res.Pairs...)
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Role < pairs[j].Role })
		for _, p := range pairs {
			t.AppendRow(table.Row{string(res.Scenario), p.Role, p.ChainID, p.Forwarder.Hex(), p.Onchain.Hex()})
		}
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, faintStyle.Sprint("Resolved addresses"))
	fmt.Fprintln(r.out, t.Render())
}

var _ Renderer[*usecase.RunSuiteResult] = (*SummaryRenderer)(nil)
