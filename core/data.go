package core

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// Sample is one measurement. Scalar samples have length 1.
type Sample []float64

type Counts map[string]uint32

func (c Counts) String() string {
	st, err := jsonIter.Marshal(c)
	if err != nil {
		zap.L().Error("Failed to marshal core.Counts")
		return ""
	}
	return string(st)
}

// Series is an ordered telemetry sequence. Times is either empty or aligned
// with Samples.
type Series struct {
	Source  string      `json:"source,omitempty"`
	Times   []time.Time `json:"times,omitempty"`
	Samples []Sample    `json:"samples"`
}

func NewScalarSeries(values []float64) *Series {
	samples := make([]Sample, len(values))
	for i, v := range values {
		samples[i] = Sample{v}
	}
	return &Series{Samples: samples}
}

func NewVectorSeries(rows [][]float64) *Series {
	samples := make([]Sample, len(rows))
	for i, r := range rows {
		samples[i] = append(Sample(nil), r...)
	}
	return &Series{Samples: samples}
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Samples)
}

// Dim returns the shared dimensionality of the samples. Samples holding
// NaN or an infinity are rejected.
func (s *Series) Dim() (int, error) {
	if s.Len() == 0 {
		return 0, &InsufficientDataError{Need: 1, Got: 0}
	}
	d := len(s.Samples[0])
	if d == 0 {
		return 0, &DimensionMismatchError{Index: 0, Want: 1, Got: 0}
	}
	for i, smp := range s.Samples {
		if len(smp) != d {
			return 0, &DimensionMismatchError{Index: i, Want: d, Got: len(smp)}
		}
		for _, v := range smp {
			if !isFinite(v) {
				return 0, &InvalidSampleError{Index: i, Value: v}
			}
		}
	}
	return d, nil
}

// Column returns dimension d of every sample. The caller must have checked
// the dimensionality with Dim.
func (s *Series) Column(d int) []float64 {
	col := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		col[i] = smp[d]
	}
	return col
}

// Values returns the series as plain scalars.
func (s *Series) Values() ([]float64, error) {
	d, err := s.Dim()
	if err != nil {
		return nil, err
	}
	if d != 1 {
		return nil, &DimensionMismatchError{Index: -1, Want: 1, Got: d}
	}
	return s.Column(0), nil
}

func (s *Series) Clone() *Series {
	return deepcopy.Copy(s).(*Series)
}

// ScoreSeries is one named anomaly score sequence aligned to the input.
type ScoreSeries struct {
	Method string    `json:"method"`
	Values []float64 `json:"values"`
}

type Report struct {
	RunID          string          `json:"run_id"`
	Created        strfmt.DateTime `json:"created"`
	Source         string          `json:"source,omitempty"`
	BaselineWindow int             `json:"baseline_window"`
	Reference      []float64       `json:"reference,omitempty"`
	Times          []time.Time     `json:"times,omitempty"`
	Scores         []ScoreSeries   `json:"scores"`
	Threshold      float64         `json:"threshold,omitempty"`
	AboveThreshold int             `json:"above_threshold,omitempty"`
	Message        string          `json:"message,omitempty"`
}

func NewReport(source string, baselineWindow int) *Report {
	return &Report{
		RunID:          uuid.New().String(),
		Created:        strfmt.DateTime(time.Now()),
		Source:         source,
		BaselineWindow: baselineWindow,
		Scores:         []ScoreSeries{},
	}
}

func (r *Report) AddScores(method string, values []float64) {
	r.Scores = append(r.Scores, ScoreSeries{Method: method, Values: values})
}

// Len is the length of the longest score sequence.
func (r *Report) Len() int {
	n := 0
	for _, s := range r.Scores {
		if len(s.Values) > n {
			n = len(s.Values)
		}
	}
	return n
}

func (r *Report) Clone() *Report {
	c := deepcopy.Copy(r).(*Report)
	// deepcopy only special-cases time.Time, not named types over it
	c.Created = r.Created
	return c
}

func (r *Report) ToString() string {
	b, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error("Failed to marshal core.Report")
		return ""
	}
	return string(pretty.Pretty(b))
}
