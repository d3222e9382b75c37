package report

import (
	"fmt"
	"strings"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"gonum.org/v1/gonum/floats"
)

// Summary condenses one score sequence.
type Summary struct {
	Method string
	Len    int
	Latest float64
	Max    float64
	// ArgMax is the index of the first maximum, -1 for an empty sequence.
	ArgMax int
	// Above lists the indices whose score is strictly above the threshold.
	Above []int
}

func Summarize(s core.ScoreSeries, threshold float64) Summary {
	sum := Summary{Method: s.Method, Len: len(s.Values), ArgMax: -1}
	if len(s.Values) == 0 {
		return sum
	}
	sum.ArgMax = floats.MaxIdx(s.Values)
	sum.Max = s.Values[sum.ArgMax]
	sum.Latest = s.Values[len(s.Values)-1]
	for i, v := range s.Values {
		if v > threshold {
			sum.Above = append(sum.Above, i)
		}
	}
	return sum
}

// SummarizeReport summarizes every sequence and records the largest above
// threshold count on the report.
func SummarizeReport(rep *core.Report, threshold float64) []Summary {
	out := make([]Summary, 0, len(rep.Scores))
	rep.Threshold = threshold
	rep.AboveThreshold = 0
	for _, s := range rep.Scores {
		sum := Summarize(s, threshold)
		if len(sum.Above) > rep.AboveThreshold {
			rep.AboveThreshold = len(sum.Above)
		}
		out = append(out, sum)
	}
	return out
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: samples=%d max=%.6f", s.Method, s.Len, s.Max)
	if s.ArgMax >= 0 {
		fmt.Fprintf(&b, "@%d", s.ArgMax)
	}
	fmt.Fprintf(&b, " latest=%.6f above=%d", s.Latest, len(s.Above))
	return b.String()
}
