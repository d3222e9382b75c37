// Package monitor rescores a telemetry file periodically inside the run
// group and reports threshold crossings.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"github.com/qtelemetry/qtelemetry/coreapp/report"
	"github.com/qtelemetry/qtelemetry/coreapp/scorer"
	"go.uber.org/zap"
)

const TaskName = "monitor"

// DefaultThreshold is the score above which a sample counts as anomalous.
const DefaultThreshold = 0.1

type TaskImpl struct {
	Path           string        `toml:"path"`
	Method         string        `toml:"method"`
	BaselineWindow int           `toml:"baseline_window"`
	Layers         int           `toml:"layers"`
	Workers        int           `toml:"workers"`
	Threshold      float64       `toml:"threshold"`
	BackoffPeriod  time.Duration `toml:"backoff_period"`
	Timeout        time.Duration `toml:"timeout"`

	sc      *core.SystemComponents
	loader  core.TelemetryLoader
	scorer  scorer.Scorer
	period  time.Duration
	failing bool
	// warned is the sample count already checked for crossings.
	warned int

	mu     sync.Mutex
	latest *core.Report

	core.DefaultTaskImpl
}

func NewTaskImpl() *TaskImpl {
	return &TaskImpl{
		Method:    scorer.MethodQuantum,
		Threshold: DefaultThreshold,
	}
}

func (m *TaskImpl) GetEmptyParams() interface{} {
	return m
}

func (m *TaskImpl) SetPeriod(d time.Duration) {
	m.period = d
}

func (m *TaskImpl) SetParams(p interface{}) error {
	if p == nil {
		zap.L().Debug("no params for monitor task")
		return nil
	}
	mp, ok := p.(map[string]interface{})
	if !ok {
		msg := fmt.Errorf("failed to set params for monitor task/params: %v", p)
		zap.L().Error(msg.Error())
		return msg
	}
	if v, ok := mp["path"].(string); ok {
		m.Path = v
	}
	if v, ok := mp["method"].(string); ok {
		m.Method = v
	}
	var err error
	if m.BaselineWindow, err = intParam(mp, "baseline_window", m.BaselineWindow); err != nil {
		return err
	}
	if m.Layers, err = intParam(mp, "layers", m.Layers); err != nil {
		return err
	}
	if m.Workers, err = intParam(mp, "workers", m.Workers); err != nil {
		return err
	}
	if m.Threshold, err = floatParam(mp, "threshold", m.Threshold); err != nil {
		return err
	}
	if m.BackoffPeriod, err = durationParam(mp, "backoff_period", m.BackoffPeriod); err != nil {
		return err
	}
	if m.Timeout, err = durationParam(mp, "timeout", m.Timeout); err != nil {
		return err
	}
	return nil
}

func (m *TaskImpl) Setup() error {
	if m.Path == "" {
		return fmt.Errorf("monitor task needs a path")
	}
	m.sc = core.GetSystemComponents()
	if m.sc == nil {
		return fmt.Errorf("system components are not set up")
	}
	loader, err := m.sc.GetLoader()
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to get telemetry loader/reason:%s", err))
		return err
	}
	enc, err := m.sc.GetStateEncoder()
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to get state encoder/reason:%s", err))
		return err
	}
	s, err := scorer.New(m.Method, enc, scorer.Options{
		BaselineWindow: m.BaselineWindow,
		Layers:         m.Layers,
		Workers:        m.Workers,
	})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to create scorer/reason:%s", err))
		return err
	}
	m.loader = loader
	m.scorer = s
	zap.L().Info(fmt.Sprintf("monitor task is ready/path:%s/method:%s/threshold:%v", m.Path, m.Method, m.Threshold))
	return nil
}

func (m *TaskImpl) Task() {
	ctx := context.Background()
	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}
	if err := m.rescore(ctx); err != nil {
		zap.L().Error(fmt.Sprintf("failed to rescore telemetry/path:%s/reason:%s", m.Path, err))
		m.failing = true
		return
	}
	if m.failing {
		zap.L().Info(fmt.Sprintf("monitor recovered/path:%s", m.Path))
	}
	m.failing = false
}

func (m *TaskImpl) rescore(ctx context.Context) error {
	series, err := m.loader.Load(m.Path)
	if err != nil {
		return err
	}
	res, err := m.scorer.Score(ctx, series)
	if err != nil {
		return err
	}
	rep := report.FromResult(series.Source, series.Times, res)
	rep.Message = fmt.Sprintf("monitor rescore of %s", m.Path)
	sum := report.SummarizeReport(rep, m.Threshold)[0]

	if len(res.Scores) < m.warned {
		// the file was replaced by a shorter one
		m.warned = 0
	}
	for _, i := range sum.Above {
		if i < m.warned {
			continue
		}
		at := ""
		if i < len(series.Times) {
			at = series.Times[i].UTC().Format(time.RFC3339)
		}
		zap.L().Warn(fmt.Sprintf("score above threshold/path:%s/method:%s/index:%d/time:%s/score:%.6f/threshold:%v",
			m.Path, res.Method, i, at, res.Scores[i], m.Threshold))
	}
	m.warned = len(res.Scores)

	m.mu.Lock()
	m.latest = rep
	m.mu.Unlock()

	zap.L().Info(fmt.Sprintf("rescored telemetry/path:%s/%s", m.Path, sum))
	m.sc.PublishStats(core.MonitorStats{
		Task:           TaskName,
		Method:         res.Method,
		Samples:        sum.Len,
		Latest:         sum.Latest,
		Max:            sum.Max,
		AboveThreshold: len(sum.Above),
		UpdatedAt:      time.Now(),
	})
	return nil
}

// LatestReport returns a copy of the report of the last successful rescore,
// nil before the first one.
func (m *TaskImpl) LatestReport() *core.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest == nil {
		return nil
	}
	return m.latest.Clone()
}

// RequirePeriodUpdate switches to the backoff period while loading or
// scoring fails and back to the configured period once it succeeds.
func (m *TaskImpl) RequirePeriodUpdate() (bool, time.Duration) {
	if m.BackoffPeriod <= 0 {
		return false, 0
	}
	if m.failing {
		return true, m.BackoffPeriod
	}
	if m.period > 0 {
		return true, m.period
	}
	return false, 0
}

func intParam(mp map[string]interface{}, key string, def int) (int, error) {
	v, ok := mp[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return def, fmt.Errorf("monitor param %s must be an integer, got %v", key, v)
	}
}

func floatParam(mp map[string]interface{}, key string, def float64) (float64, error) {
	v, ok := mp[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return def, fmt.Errorf("monitor param %s must be a number, got %v", key, v)
	}
}

func durationParam(mp map[string]interface{}, key string, def time.Duration) (time.Duration, error) {
	v, ok := mp[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("monitor param %s must be a duration string, got %v", key, v)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def, fmt.Errorf("monitor param %s: %w", key, err)
	}
	return d, nil
}
