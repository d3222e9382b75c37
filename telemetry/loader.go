// Package telemetry reads magnetometer tables into core.Series.
package telemetry

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var errNoSamples = errors.New("no samples inside the time window")

// readError stops the scan. Any other row error marks a bad line.
type readError struct {
	err error
}

func (e *readError) Error() string { return e.err.Error() }

// rowReader yields the fields of the next row, io.EOF at the end.
type rowReader interface {
	next() (fields []string, line int, err error)
}

// parseRow is the format specific conversion of one row.
type parseRow func(fields []string) (time.Time, core.Sample, error)

// LoadStats counts what a loader read since it was set up.
type LoadStats struct {
	Loads    int64
	Samples  int64
	BadLines int64
}

// loader holds what both formats share: the setting, the parsed window and
// the bad line policy.
type loader struct {
	setting *Setting
	window  window
	columns []int

	loads    atomic.Int64
	samples  atomic.Int64
	badLines atomic.Int64
}

func (l *loader) Stats() LoadStats {
	return LoadStats{Loads: l.loads.Load(), Samples: l.samples.Load(), BadLines: l.badLines.Load()}
}

// TearDown logs the totals of the loader and clears them.
func (l *loader) TearDown() error {
	st := LoadStats{Loads: l.loads.Swap(0), Samples: l.samples.Swap(0), BadLines: l.badLines.Swap(0)}
	zap.L().Info(fmt.Sprintf("telemetry loader stats/loads:%d/samples:%d/bad_lines:%d", st.Loads, st.Samples, st.BadLines))
	return nil
}

func (l *loader) setup(defaultColumns []int) error {
	if s, ok := core.GetComponentSetting(SettingKey); ok {
		ts, ok := s.(*Setting)
		if !ok {
			return fmt.Errorf("unexpected telemetry setting type %T", s)
		}
		l.setting = ts
	}
	if l.setting == nil {
		l.setting = NewDefaultSetting()
	}
	w, err := newWindow(l.setting.Start, l.setting.End)
	if err != nil {
		return err
	}
	l.window = w
	l.columns = l.setting.ValueColumns
	if len(l.columns) == 0 {
		l.columns = defaultColumns
	}
	zap.L().Debug(fmt.Sprintf("telemetry loader/columns:%v/start:%s/end:%s/skip_bad_lines:%t",
		l.columns, l.setting.Start, l.setting.End, l.setting.SkipBadLines))
	return nil
}

func (l *loader) load(path string, read func(io.Reader, string) (*core.Series, error)) (*core.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to open telemetry/path:%s/reason:%s", path, err))
		return nil, &core.DataUnavailableError{Source: path, Err: err}
	}
	defer f.Close()
	return read(f, path)
}

// collect reads every row, keeps those inside the window and applies the
// bad line policy.
func (l *loader) collect(rr rowReader, parse parseRow, source string) (*core.Series, error) {
	s := &core.Series{Source: source}
	var rowErrs error
	bad := 0
	for {
		fields, line, err := rr.next()
		if err == io.EOF {
			break
		}
		var re *readError
		if errors.As(err, &re) {
			zap.L().Error(fmt.Sprintf("failed to read telemetry/source:%s/reason:%s", source, re.err))
			return nil, &core.DataUnavailableError{Source: source, Err: re.err}
		}
		if err == nil {
			var t time.Time
			var smp core.Sample
			t, smp, err = parse(fields)
			if err == nil {
				if l.window.contains(t) {
					s.Times = append(s.Times, t)
					s.Samples = append(s.Samples, smp)
				}
				continue
			}
		}
		bad++
		rowErrs = multierr.Append(rowErrs, fmt.Errorf("line %d: %w", line, err))
	}
	l.badLines.Add(int64(bad))
	if bad > 0 {
		if !l.setting.SkipBadLines {
			zap.L().Error(fmt.Sprintf("bad lines in telemetry/source:%s/count:%d", source, bad))
			return nil, &core.DataUnavailableError{Source: source, Err: rowErrs}
		}
		zap.L().Warn(fmt.Sprintf("skipped bad lines in telemetry/source:%s/count:%d", source, bad))
	}
	if s.Len() == 0 {
		return nil, &core.DataUnavailableError{Source: source, Err: errNoSamples}
	}
	l.loads.Add(1)
	l.samples.Add(int64(s.Len()))
	zap.L().Info(fmt.Sprintf("loaded telemetry/source:%s/samples:%d", source, s.Len()))
	return s, nil
}

func parseValue(fields []string, col int) (float64, error) {
	if col >= len(fields) {
		return 0, fmt.Errorf("column %d is missing, row has %d", col, len(fields))
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(fields[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("column %d: %q is not a number", col, fields[col])
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("column %d: %q is not finite", col, fields[col])
	}
	return v, nil
}

func parseValues(fields []string, cols []int) (core.Sample, error) {
	smp := make(core.Sample, len(cols))
	for i, c := range cols {
		v, err := parseValue(fields, c)
		if err != nil {
			return nil, err
		}
		smp[i] = v
	}
	return smp, nil
}
