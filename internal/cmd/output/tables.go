package output

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/timeaxis/pkg/deoverlap"
	"github.com/agentstation/timeaxis/pkg/overlap"
	"github.com/agentstation/timeaxis/pkg/report"
	"github.com/agentstation/timeaxis/pkg/units"
)

// Write renders table for table formats and raw for every other format.
func Write(w io.Writer, format Format, table Data, raw any) error {
	switch format {
	case FormatTable, FormatText, "":
		return NewFormatter(FormatTable).Format(w, table)
	default:
		return NewFormatter(format).Format(w, raw)
	}
}

// IsStructured reports whether format is a machine readable encoding.
func IsStructured(format Format) bool {
	return format == FormatJSON || format == FormatYAML
}

// IssuesToTableData converts validation issues to table format.
func IssuesToTableData(issues []report.Issue) Data {
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		row := []string{issue.File, string(issue.Kind), "", "", ""}
		if issue.Kind == report.KindDiscontinuity {
			row[2] = report.FormatValue(issue.At)
			row[3] = report.FormatValue(issue.Delta)
			row[4] = report.FormatValue(issue.Expected)
		}
		rows = append(rows, row)
	}
	return Data{
		Headers:         []string{"File", "Kind", "At", "Delta", "Expected"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight},
	}
}

// StreamsToTableData lists production streams in first-seen order.
func StreamsToTableData(streams []string) Data {
	rows := make([][]string, 0, len(streams))
	for i, s := range streams {
		rows = append(rows, []string{strconv.Itoa(i + 1), s})
	}
	return Data{
		Headers:         []string{"#", "Stream"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft},
	}
}

// RecordsToTableData converts misaligned pairs to table format.
func RecordsToTableData(records []overlap.Record) Data {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Earlier.Name,
			r.Later.Name,
			report.FormatValue(r.EarlierLast),
			report.FormatValue(r.LaterFirst),
			string(r.Kind),
		})
	}
	return Data{
		Headers:         []string{"Earlier", "Later", "Earlier Ends", "Later Starts", "Kind"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
}

// SegmentsToTableData converts overlap segments to table format, one row
// per segment listing the chain of files it spans.
func SegmentsToTableData(segments []overlap.Segment) Data {
	rows := make([][]string, 0, len(segments))
	for i, s := range segments {
		chain := []string{s.Records[0].Earlier.Name}
		for _, r := range s.Records {
			chain = append(chain, r.Later.Name)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strings.Join(chain, " > "),
			report.FormatValue(s.Start),
			report.FormatValue(s.End),
			strconv.Itoa(len(s.Records)),
		})
	}
	return Data{
		Headers:         []string{"#", "Files", "Start", "End", "Cuts"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignRight, AlignRight, AlignRight},
	}
}

// TruncationsToTableData converts written truncations to table format.
func TruncationsToTableData(truncations []deoverlap.Truncation) Data {
	rows := make([][]string, 0, len(truncations))
	for _, t := range truncations {
		rows = append(rows, []string{
			t.Source,
			t.Output,
			strconv.Itoa(t.Keep),
			report.FormatValue(t.At),
		})
	}
	return Data{
		Headers:         []string{"Source", "Output", "Kept Steps", "Ends At"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight},
	}
}

// UnitsToTableData lists every distinct units string with its file count,
// majority first.
func UnitsToTableData(res *units.Result) Data {
	keys := make([]string, 0, len(res.Counts))
	for k := range res.Counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == res.Majority:
			return -1
		case b == res.Majority:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		mark := ""
		if k == res.Majority {
			mark = "yes"
		}
		rows = append(rows, []string{k, strconv.Itoa(res.Counts[k]), mark})
	}
	return Data{
		Headers:         []string{"Units", "Files", "Majority"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignCenter},
	}
}
