package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TextReporter writes a human readable table.
type TextReporter struct{}

// Render implements Reporter.
func (TextReporter) Render(w io.Writer, scan Scan) error {
	bw := bufio.NewWriter(w)

	anomalies := Anomalies(scan.Results)
	if len(anomalies) == 0 {
		fmt.Fprintln(bw, "No anomalies detected.")
		return bw.Flush()
	}

	fmt.Fprintf(bw, "Detected anomalies (%d of %d entries):\n", len(anomalies), len(scan.Results))
	tw := tabwriter.NewWriter(bw, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tLEVEL\tMESSAGE\tSCORE")
	for _, res := range anomalies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\n",
			res.Record.Timestamp.Format(TimestampLayout),
			cell(res.Record.Level),
			cell(res.Record.Message),
			res.Score,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(scan.Summary) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Summary by level:")
		tw = tabwriter.NewWriter(bw, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "LEVEL\tCOUNT\tMEAN\tMAX\tFIRST SEEN\tLAST SEEN\tSIGNATURES")
		for _, p := range scan.Summary {
			fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%s\t%s\t%s\n",
				cell(p.Level),
				p.Count,
				p.MeanScore,
				p.MaxScore,
				p.FirstSeen.Format(TimestampLayout),
				p.LastSeen.Format(TimestampLayout),
				cell(strings.Join(p.Signatures, " | ")),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// cell keeps free text from introducing extra tabwriter columns or rows.
func cell(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}
