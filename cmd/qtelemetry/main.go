package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"github.com/qtelemetry/qtelemetry/coreapp/qstate"
	"github.com/qtelemetry/qtelemetry/coreapp/telemetry"

	"go.uber.org/dig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	rotate "github.com/lestrrat-go/file-rotatelogs"
)

var versionByBuildFlag string
var parser *flags.Parser
var app *QTelemetry

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	app = &QTelemetry{}
	setParser(app)
}

type QTelemetry struct {
	DIContainerParameters *DIContainerParameters
	Conf                  *core.Conf
}

type DIContainerParameters struct {
	Encoder string `long:"encoder" description:"state encoder" default:"statevector" choice:"statevector" choice:"dummy" env:"QTELEMETRY_ENCODER_TYPE"`
	Loader  string `long:"loader" description:"telemetry loader" default:"csv" choice:"csv" choice:"asc" env:"QTELEMETRY_LOADER_TYPE"`
}

func setParser(q *QTelemetry) {
	parser = flags.NewParser(q, flags.Default)
	parser.ShortDescription = "qtelemetry"
	parser.LongDescription = "anomaly scoring of spacecraft magnetometer telemetry with simulated quantum states."
	parser.AddCommand("score", "score a telemetry file", "score a telemetry file with one method and write a report", newScoreCmd())
	parser.AddCommand("benchmark", "compare scorers under noise", "score noisy copies of a telemetry file with the quantum and classical scorers", newBenchmarkCmd())
	parser.AddCommand("monitor", "start monitor", "rescore telemetry periodically as configured in the run group", newMonitorCmd())
	parser.AddCommand("encode", "encode samples as a product state", "normalize consecutive samples and print the amplitudes of their product state encoding", newEncodeCmd())
	parser.AddCommand("circuit", "run a demo circuit", "simulate a named circuit and sample measurement counts", newCircuitCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (q *QTelemetry) provideDIContainer() (c *dig.Container, err error) {
	c = dig.New()
	err = c.Provide(func() (core.StateEncoder, error) {
		switch q.DIContainerParameters.Encoder {
		case "statevector":
			return &qstate.StatevectorEncoder{}, nil
		case "dummy":
			return &qstate.DummyEncoder{}, nil
		default:
			return &qstate.StatevectorEncoder{}, fmt.Errorf("%s is an unknown encoder", q.DIContainerParameters.Encoder)
		}
	})
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() (core.TelemetryLoader, error) {
		switch q.DIContainerParameters.Loader {
		case telemetry.FormatCSV:
			return telemetry.NewCSVLoader(), nil
		case telemetry.FormatASC:
			return telemetry.NewASCLoader(), nil
		default:
			return telemetry.NewCSVLoader(), fmt.Errorf("%s is an unknown loader", q.DIContainerParameters.Loader)
		}
	})
	if err != nil {
		return &dig.Container{}, err
	}
	return
}

func zapLogger(conf *core.Conf) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	if conf.DevMode {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		c := zap.NewProductionEncoderConfig()
		c.EncodeTime = zapcore.ISO8601TimeEncoder
		c.TimeKey = "timestamp"
		encoder = zapcore.NewJSONEncoder(c)
	}
	var level zap.AtomicLevel
	switch conf.LogLevel {
	case "debug":
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cores := []zapcore.Core{}
	if conf.EnableFileLog {
		rotater, err := makeRotator(conf.LogDir, conf.LogRotationMaxDays)
		if err != nil {
			return &zap.Logger{}, err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotater), level))
	}
	if !conf.DisableStdoutLog {
		// stdout carries reports and counts, so logs go to stderr
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func makeRotator(dirPath string, rotationMaxDays int) (*rotate.RotateLogs, error) {
	info, err := os.Stat(dirPath)
	if err != nil {
		return &rotate.RotateLogs{}, fmt.Errorf("directory:%s is not found", dirPath)
	}
	if info.Mode().Perm()&(1<<uint(7)) == 0 {
		return &rotate.RotateLogs{}, fmt.Errorf("%s is not a writable directory", dirPath)
	}
	rotator, err := rotate.New(
		filepath.Join(dirPath, "qtelemetry-%Y-%m-%d.log"),
		rotate.WithMaxAge(time.Duration(rotationMaxDays)*24*time.Hour),
		rotate.WithRotationTime(time.Hour))
	if err != nil {
		return &rotate.RotateLogs{}, err
	}
	return rotator, nil
}

func main() {
	parse()
}

func setZap(conf *core.Conf) *zap.Logger {
	logger, err := zapLogger(conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	zap.L().Debug("Starting logger")
	zap.L().Debug(fmt.Sprintf("DevMode is %t", conf.DevMode))
	zap.L().Debug(fmt.Sprintf("Log rotation max days is %d", conf.LogRotationMaxDays))
	return logger
}

// loadSetting registers the component settings and overlays the setting
// file. A missing file leaves the defaults in place unless required.
func loadSetting(conf *core.Conf, required bool) error {
	core.ResetSetting()
	registerSetting()
	zap.L().Debug("Registered setting")
	if _, err := os.Stat(conf.SettingPath); err != nil && !required {
		zap.L().Info(fmt.Sprintf("no setting file, using defaults/path:%s", conf.SettingPath))
		return nil
	}
	if err := core.ParseSettingFromPath(conf.SettingPath); err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
		return err
	}
	return nil
}

func setupSystemComponents(conf *core.Conf) (*core.SystemComponents, error) {
	core.SetVersion(conf, versionByBuildFlag)
	zap.L().Debug(fmt.Sprintf("Providing DI Container with parameters %+v", app.DIContainerParameters))

	container, err := app.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up DI-Container. Reason:%s", err.Error()))
		return nil, err
	}
	zap.L().Debug("Setting up System Components")
	s := core.NewSystemComponents(container)
	if err := s.Setup(conf); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up Container. Reason:%s", err.Error()))
		return nil, err
	}
	core.SetInfo(conf)
	return s, nil
}

func registerSetting() {
	core.RegisterSetting(telemetry.SettingKey, telemetry.NewDefaultSetting())
}

func telemetrySetting() *telemetry.Setting {
	v, ok := core.GetComponentSetting(telemetry.SettingKey)
	if !ok {
		return telemetry.NewDefaultSetting()
	}
	return v.(*telemetry.Setting)
}
