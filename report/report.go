// Package report renders core.Report as JSON or CSV and summarizes its
// score sequences.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"github.com/qtelemetry/qtelemetry/coreapp/scorer"
	"github.com/tidwall/pretty"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

func Formats() []string {
	return []string{FormatJSON, FormatCSV}
}

func Write(w io.Writer, rep *core.Report, format string) error {
	if rep == nil {
		return fmt.Errorf("nil report")
	}
	switch strings.ToLower(format) {
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatCSV:
		return writeCSV(w, rep)
	default:
		return fmt.Errorf("unknown report format %q, want one of %v", format, Formats())
	}
}

// WriteFile writes rep to path, replacing the file. A failed close is
// reported when the write itself succeeded.
func WriteFile(path string, rep *core.Report, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Write(f, rep, format)
}

func writeJSON(w io.Writer, rep *core.Report) error {
	b, err := jsonIter.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = w.Write(pretty.Pretty(b))
	return err
}

// writeCSV writes one row per sample index. Cells past the end of a shorter
// sequence are left empty, as is the time column when the report has no
// timestamps.
func writeCSV(w io.Writer, rep *core.Report) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(rep.Scores)+2)
	header = append(header, "index", "time")
	for _, s := range rep.Scores {
		header = append(header, s.Method)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i := 0; i < rep.Len(); i++ {
		row[0] = strconv.Itoa(i)
		row[1] = ""
		if i < len(rep.Times) {
			row[1] = rep.Times[i].UTC().Format(time.RFC3339Nano)
		}
		for j, s := range rep.Scores {
			row[j+2] = ""
			if i < len(s.Values) {
				row[j+2] = strconv.FormatFloat(s.Values[i], 'g', -1, 64)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FromResult builds a report holding one scorer result. times may be empty
// for synthetic series.
func FromResult(source string, times []time.Time, res *scorer.Result) *core.Report {
	rep := core.NewReport(source, res.Window)
	rep.Reference = res.Reference
	rep.Times = times
	rep.AddScores(res.Method, res.Scores)
	return rep
}
