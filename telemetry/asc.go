package telemetry

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
)

// Column layout of the whitespace separated hourly-average tables:
// spacecraft, flag, year, day of year, decimal hour, B_mag, B_avg, ...
const (
	ascYearColumn = 2
	ascDayColumn  = 3
	ascHourColumn = 4
	ascBMagColumn = 5
)

// ASCLoader reads whitespace separated tables dated by year, day of year
// and decimal hour.
type ASCLoader struct {
	loader
}

func DefaultASCColumns() []int {
	return []int{ascBMagColumn}
}

func NewASCLoader() *ASCLoader {
	return &ASCLoader{}
}

func (l *ASCLoader) Setup(_ *core.Conf) error {
	return l.setup(DefaultASCColumns())
}

func (l *ASCLoader) Load(path string) (*core.Series, error) {
	return l.load(path, l.Read)
}

func (l *ASCLoader) Read(r io.Reader, source string) (*core.Series, error) {
	if l.setting == nil {
		if err := l.Setup(nil); err != nil {
			return nil, err
		}
	}
	return l.collect(&ascRows{sc: bufio.NewScanner(r)}, l.parse, source)
}

func (l *ASCLoader) parse(fields []string) (time.Time, core.Sample, error) {
	t, err := ascTime(fields)
	if err != nil {
		return time.Time{}, nil, err
	}
	smp, err := parseValues(fields, l.columns)
	if err != nil {
		return time.Time{}, nil, err
	}
	return t, smp, nil
}

func ascTime(fields []string) (time.Time, error) {
	if len(fields) <= ascHourColumn {
		return time.Time{}, fmt.Errorf("row has %d fields, want at least %d", len(fields), ascHourColumn+1)
	}
	year, err := strconv.Atoi(fields[ascYearColumn])
	if err != nil {
		return time.Time{}, fmt.Errorf("year %q: %w", fields[ascYearColumn], err)
	}
	day, err := strconv.Atoi(fields[ascDayColumn])
	if err != nil || day < 1 || day > 366 {
		return time.Time{}, fmt.Errorf("day of year %q is out of range", fields[ascDayColumn])
	}
	hour, err := strconv.ParseFloat(fields[ascHourColumn], 64)
	if err != nil || hour < 0 || hour >= 24 {
		return time.Time{}, fmt.Errorf("hour %q is out of range", fields[ascHourColumn])
	}
	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
	return t.Add(time.Duration(hour * float64(time.Hour))).Round(time.Second), nil
}

type ascRows struct {
	sc   *bufio.Scanner
	line int
}

func (a *ascRows) next() ([]string, int, error) {
	for a.sc.Scan() {
		a.line++
		text := strings.TrimSpace(a.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		return strings.Fields(text), a.line, nil
	}
	if err := a.sc.Err(); err != nil {
		return nil, a.line, &readError{err: err}
	}
	return nil, a.line, io.EOF
}
