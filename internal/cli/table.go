package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// NewTable returns a tabwriter with a styled header row already written.
// Callers write tab-separated rows and must Flush.
func NewTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = HeaderStyle.Render(h)
	}
	fmt.Fprintln(tw, strings.Join(styled, "\t"))
	return tw
}
