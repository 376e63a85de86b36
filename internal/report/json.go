package report

import (
	"io"
	"time"

	"github.com/valyala/fastjson"
)

// JSONReporter writes one JSON document per scan.
type JSONReporter struct{}

// Render implements Reporter.
func (JSONReporter) Render(w io.Writer, scan Scan) error {
	var a fastjson.Arena

	anomalies := Anomalies(scan.Results)
	rows := a.NewArray()
	for i, res := range anomalies {
		row := a.NewObject()
		row.Set("timestamp", a.NewString(res.Record.Timestamp.Format(time.RFC3339)))
		row.Set("level", a.NewString(res.Record.Level))
		row.Set("message", a.NewString(res.Record.Message))
		row.Set("score", a.NewNumberFloat64(res.Score))
		rows.SetArrayItem(i, row)
	}

	doc := a.NewObject()
	doc.Set("run_id", a.NewString(scan.RunID))
	doc.Set("source", a.NewString(scan.Source))
	doc.Set("total", a.NewNumberInt(len(scan.Results)))
	doc.Set("anomaly_count", a.NewNumberInt(len(anomalies)))
	doc.Set("anomalies", rows)

	if len(scan.Summary) > 0 {
		summary := a.NewArray()
		for i, p := range scan.Summary {
			item := a.NewObject()
			item.Set("level", a.NewString(p.Level))
			item.Set("count", a.NewNumberInt(p.Count))
			item.Set("mean_score", a.NewNumberFloat64(p.MeanScore))
			item.Set("max_score", a.NewNumberFloat64(p.MaxScore))
			item.Set("first_seen", a.NewString(p.FirstSeen.Format(time.RFC3339)))
			item.Set("last_seen", a.NewString(p.LastSeen.Format(time.RFC3339)))
			sigs := a.NewArray()
			for j, sig := range p.Signatures {
				sigs.SetArrayItem(j, a.NewString(sig))
			}
			item.Set("signatures", sigs)
			summary.SetArrayItem(i, item)
		}
		doc.Set("summary", summary)
	}

	buf := doc.MarshalTo(nil)
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}
