package resize

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary renders results as a table, one row per file.
func RenderSummary(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Input", "Output", "From", "To", "Size"})

	var total int64
	for _, res := range results {
		tw.AppendRow(table.Row{res.Input, res.Output, res.From.String(), res.To.String(), humanize.Bytes(uint64(res.OutputBytes))})
		total += res.OutputBytes
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d files", len(results)), "", "", "", humanize.Bytes(uint64(total))})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}
