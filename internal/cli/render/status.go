package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/socket-protocol/evmx-integration/internal/domain"
	"github.com/socket-protocol/evmx-integration/internal/usecase"
)

// StatusRenderer renders the final state of a monitored broadcast
type StatusRenderer struct {
	out io.Writer
}

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer) *StatusRenderer {
	return &StatusRenderer{out: out}
}

func (r *StatusRenderer) Render(result *usecase.MonitorBroadcastResult) error {
	if result == nil || len(result.Transactions) == 0 {
		fmt.Fprintln(r.out, "No transactions found in broadcast")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"Transaction", "Status"})
	for _, tx := range result.Transactions {
		status := tx.Status
		switch status {
		case domain.StatusCompleted:
			status = passStyle.Sprint(status)
		case usecase.TxPending, domain.StatusInProgress:
			status = faintStyle.Sprint(status)
		}
		t.AppendRow(table.Row{tx.Hash, status})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.MonitorBroadcastResult] = (*StatusRenderer)(nil)
