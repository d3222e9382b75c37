package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
)

// CSVLoader reads comma separated tables with a timestamp column and one
// or more value columns. The default value column is |B| of the PDS
// Voyager tables.
type CSVLoader struct {
	loader
}

func DefaultCSVColumns() []int {
	return []int{8}
}

func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

func (l *CSVLoader) Setup(_ *core.Conf) error {
	return l.setup(DefaultCSVColumns())
}

func (l *CSVLoader) Load(path string) (*core.Series, error) {
	return l.load(path, l.Read)
}

// Read parses a table from r. source names it in the series and errors.
func (l *CSVLoader) Read(r io.Reader, source string) (*core.Series, error) {
	if l.setting == nil {
		if err := l.Setup(nil); err != nil {
			return nil, err
		}
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	if d := l.setting.Delimiter; d != "" {
		c, _ := utf8.DecodeRuneInString(d)
		cr.Comma = c
	}
	return l.collect(&csvRows{r: cr}, l.parse, source)
}

func (l *CSVLoader) parse(fields []string) (time.Time, core.Sample, error) {
	col := l.setting.TimeColumn
	if col >= len(fields) {
		return time.Time{}, nil, fmt.Errorf("time column %d is missing, row has %d", col, len(fields))
	}
	t, err := ParseTime(fields[col])
	if err != nil {
		return time.Time{}, nil, err
	}
	smp, err := parseValues(fields, l.columns)
	if err != nil {
		return time.Time{}, nil, err
	}
	return t, smp, nil
}

type csvRows struct {
	r *csv.Reader
}

func (c *csvRows) next() ([]string, int, error) {
	fields, err := c.r.Read()
	if err != nil {
		if pe, ok := err.(*csv.ParseError); ok {
			return nil, pe.Line, err
		}
		if err == io.EOF {
			return nil, 0, err
		}
		return nil, 0, &readError{err: err}
	}
	line, _ := c.r.FieldPos(0)
	return fields, line, nil
}
