package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/oklog/run"
	"go.uber.org/zap"

	"github.com/qtelemetry/qtelemetry/coreapp/benchmark"
	"github.com/qtelemetry/qtelemetry/coreapp/common"
	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"github.com/qtelemetry/qtelemetry/coreapp/encoder"
	"github.com/qtelemetry/qtelemetry/coreapp/log"
	"github.com/qtelemetry/qtelemetry/coreapp/monitor"
	"github.com/qtelemetry/qtelemetry/coreapp/qstate"
	"github.com/qtelemetry/qtelemetry/coreapp/report"
	"github.com/qtelemetry/qtelemetry/coreapp/scorer"
	"github.com/qtelemetry/qtelemetry/coreapp/telemetry"
)

// loadOptions are shared by the commands that read a telemetry file.
type loadOptions struct {
	Columns string `long:"columns" description:"comma separated value columns, e.g. 3,4,5"`
	Start   string `long:"start" description:"first timestamp to keep, inclusive"`
	End     string `long:"end" description:"last timestamp to keep, inclusive"`
	Strict  bool   `long:"strict" description:"fail on the first malformed row instead of skipping it"`
}

type outputOptions struct {
	Format string `long:"format" description:"report format" default:"json" choice:"json" choice:"csv"`
	Output string `long:"output" short:"o" description:"report file, standard output when empty"`
}

// prepare applies the command line overrides to the telemetry setting and
// sets up the system components. It returns the file to load.
func (o *loadOptions) prepare(args []string, vectorDefault bool) (*core.SystemComponents, string, error) {
	if err := loadSetting(app.Conf, false); err != nil {
		return nil, "", err
	}
	ts := telemetrySetting()
	if o.Columns != "" {
		cols, err := common.ParseIndexList(o.Columns)
		if err != nil {
			return nil, "", err
		}
		ts.ValueColumns = cols
	} else if vectorDefault && len(ts.ValueColumns) == 0 && app.DIContainerParameters.Loader == telemetry.FormatCSV {
		ts.ValueColumns = telemetry.VectorColumns()
	}
	if o.Start != "" {
		ts.Start = o.Start
	}
	if o.End != "" {
		ts.End = o.End
	}
	if o.Strict {
		ts.SkipBadLines = false
	}

	path := ts.Path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, "", fmt.Errorf("no telemetry file given")
	}
	s, err := setupSystemComponents(app.Conf)
	if err != nil {
		return nil, "", err
	}
	return s, path, nil
}

func writeReport(rep *core.Report, o *outputOptions) error {
	if o.Output != "" {
		if err := report.WriteFile(o.Output, rep, o.Format); err != nil {
			zap.L().Error(fmt.Sprintf("failed to write report file/path:%s/reason:%s", o.Output, err))
			return err
		}
		return nil
	}
	if err := report.Write(os.Stdout, rep, o.Format); err != nil {
		zap.L().Error(fmt.Sprintf("failed to write report/reason:%s", err))
		return err
	}
	if o.Format == report.FormatJSON {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

type scoreCmd struct {
	loadOptions
	outputOptions

	Method    string  `long:"method" description:"scoring method" default:"quantum" choice:"quantum" choice:"entangled" choice:"decoupled" choice:"classical"`
	Window    int     `long:"window" description:"baseline window, 0 for the method default"`
	Layers    int     `long:"layers" description:"encoding layers of the entangled scorer" default:"1"`
	Threshold float64 `long:"threshold" description:"score above which a sample is reported" default:"0.1"`
}

func newScoreCmd() *scoreCmd {
	return &scoreCmd{}
}

func (c *scoreCmd) Execute(args []string) error {
	logger := setZap(app.Conf)
	defer logger.Sync()

	vector := c.Method == scorer.MethodEntangled || c.Method == scorer.MethodDecoupled
	s, path, err := c.prepare(args, vector)
	if err != nil {
		return err
	}
	defer s.TearDown()

	loader, err := s.GetLoader()
	if err != nil {
		return err
	}
	enc, err := s.GetStateEncoder()
	if err != nil {
		return err
	}
	series, err := loader.Load(path)
	if err != nil {
		return err
	}
	sc, err := scorer.New(c.Method, enc, scorer.Options{
		BaselineWindow: c.Window,
		Layers:         c.Layers,
		Workers:        app.Conf.Workers,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	res, err := sc.Score(ctx, series)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to score/path:%s/method:%s/reason:%s", path, c.Method, err))
		return err
	}
	rep := report.FromResult(series.Source, series.Times, res)
	for _, sum := range report.SummarizeReport(rep, c.Threshold) {
		zap.L().Info(sum.String())
	}
	return writeReport(rep, &c.outputOptions)
}

type benchmarkCmd struct {
	loadOptions
	outputOptions

	Seed       uint64 `long:"seed" description:"noise seed" default:"42"`
	Amplitudes string `long:"amplitudes" description:"comma separated noise standard deviations in nT" default:"0,5,10"`
	Window     int    `long:"window" description:"baseline window of both scorers" default:"20"`
}

func newBenchmarkCmd() *benchmarkCmd {
	return &benchmarkCmd{}
}

func (c *benchmarkCmd) Execute(args []string) error {
	logger := setZap(app.Conf)
	defer logger.Sync()

	amps, err := common.ParseFloatList(c.Amplitudes)
	if err != nil {
		return err
	}
	s, path, err := c.prepare(args, false)
	if err != nil {
		return err
	}
	defer s.TearDown()

	loader, err := s.GetLoader()
	if err != nil {
		return err
	}
	enc, err := s.GetStateEncoder()
	if err != nil {
		return err
	}
	series, err := loader.Load(path)
	if err != nil {
		return err
	}

	h := benchmark.NewHarness(enc, c.Seed)
	h.Window = c.Window
	h.Workers = app.Conf.Workers
	ctx, cancel := signalContext()
	defer cancel()
	levels, err := h.Run(ctx, series, amps)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to run benchmark/path:%s/reason:%s", path, err))
		return err
	}
	rep := benchmark.Report(series.Source, c.Window, levels)
	rep.Times = series.Times
	for _, sum := range report.SummarizeReport(rep, monitor.DefaultThreshold) {
		zap.L().Info(sum.String())
	}
	return writeReport(rep, &c.outputOptions)
}

type monitorCmd struct{}

func newMonitorCmd() *monitorCmd {
	return &monitorCmd{}
}

func (c *monitorCmd) Execute(args []string) error {
	logger := setZap(app.Conf)
	defer logger.Sync()

	if err := loadSetting(app.Conf, true); err != nil {
		return err
	}
	s, err := setupSystemComponents(app.Conf)
	if err != nil {
		return err
	}
	defer s.TearDown()

	im := &core.ImplMaps{
		PeriodicTaskImplMap: core.PeriodicTaskImplMap{
			monitor.TaskName:       monitor.NewTaskImpl(),
			log.VersionLogTaskName: &log.VersionLogTaskImpl{},
			log.StatsLogTaskName:   &log.StatsLogTaskImpl{},
		},
	}
	rc, err := core.NewRunContextWithSettingPath(app.Conf.SettingPath, im)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to setup run context/reason:%s", err.Error()))
		return err
	}

	zap.L().Debug("Setting up run-group")
	rc.Add(run.SignalHandler(rc.Context, os.Interrupt))
	core.SetRunContext(rc)

	if err := rc.Run(); err != nil {
		if _, ok := err.(run.SignalError); ok {
			zap.L().Info(fmt.Sprintf("stopped by %s", err))
			return nil
		}
		fmt.Fprintf(os.Stderr, "execution error:%v\n", err)
		os.Exit(1)
	}
	return nil
}

type circuitCmd struct {
	Name  string `long:"name" description:"circuit" default:"bell" choice:"hadamard" choice:"bell" choice:"grover"`
	Shots int    `long:"shots" description:"measurement shots" default:"1000"`
	Seed  uint64 `long:"seed" description:"sampling seed" default:"42"`
}

func newCircuitCmd() *circuitCmd {
	return &circuitCmd{}
}

func (c *circuitCmd) Execute(args []string) error {
	logger := setZap(app.Conf)
	defer logger.Sync()

	circ, err := qstate.NamedCircuit(c.Name)
	if err != nil {
		return err
	}
	sv, err := circ.Run()
	if err != nil {
		return err
	}
	counts, err := qstate.Sample(sv, c.Shots, rand.NewPCG(c.Seed, 0))
	if err != nil {
		return err
	}
	probs := sv.Probabilities()
	fmt.Printf("circuit %s, %d qubits, %d shots\n", circ.Name, circ.Qubits, c.Shots)
	for i, p := range probs {
		b := qstate.Bitstring(i, circ.Qubits)
		fmt.Printf("%s p=%.4f count=%d\n", b, p, counts[b])
	}
	zap.L().Debug(fmt.Sprintf("sampled counts:%s", counts))
	return nil
}

type encodeCmd struct {
	loadOptions

	Samples int `long:"samples" description:"consecutive samples from --start, one qubit each" default:"4"`
}

func newEncodeCmd() *encodeCmd {
	return &encodeCmd{}
}

// Execute normalizes the first samples of a scalar series by their own range
// and prints the product state they encode.
func (c *encodeCmd) Execute(args []string) error {
	logger := setZap(app.Conf)
	defer logger.Sync()

	if c.Samples <= 0 {
		return fmt.Errorf("--samples must be positive, got %d", c.Samples)
	}
	s, path, err := c.prepare(args, false)
	if err != nil {
		return err
	}
	defer s.TearDown()

	loader, err := s.GetLoader()
	if err != nil {
		return err
	}
	enc, err := s.GetStateEncoder()
	if err != nil {
		return err
	}
	series, err := loader.Load(path)
	if err != nil {
		return err
	}
	values, err := series.Values()
	if err != nil {
		return err
	}
	if len(values) < c.Samples {
		return &core.InsufficientDataError{Need: c.Samples, Got: len(values)}
	}
	values = values[:c.Samples]
	angles, err := encoder.Angles(values)
	if err != nil {
		return err
	}
	st, err := enc.Encode(encoder.ProductSpec(angles))
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to encode/path:%s/reason:%s", path, err))
		return err
	}
	for i, v := range values {
		fmt.Printf("q%d value=%g angle=%.6f\n", i, v, angles[i])
	}
	sv, ok := st.(*qstate.StateVector)
	if !ok {
		zap.L().Info(fmt.Sprintf("encoder keeps no amplitudes/dimension:%d", st.Dimension()))
		return nil
	}
	probs := sv.Probabilities()
	for i, a := range sv.Amplitudes() {
		fmt.Printf("%s amplitude=%.6f%+.6fi p=%.6f\n", qstate.Bitstring(i, len(angles)), real(a), imag(a), probs[i])
	}
	return nil
}
