package core

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/oklog/run"
	"github.com/qtelemetry/qtelemetry/coreapp/common"
	"go.uber.org/zap"
)

var runContext *RunContext

const PERIODIC_TASKS = "periodic_tasks"

type PeriodicTaskImplMap map[string]PeriodicTaskImpl
type PeriodicTaskMap map[string]*PeriodicTask

type ImplMaps struct {
	PeriodicTaskImplMap PeriodicTaskImplMap
}

type RunnerImpl interface {
	GetEmptyParams() interface{}
	SetParams(interface{}) error
	Setup() error
}

type RunContext struct {
	*run.Group
	context.Context

	settingsPath string

	RunGroupMaps *RunGroupMaps `toml:"run_group,omitempty"`
}

type RunGroupMaps struct {
	PeriodicTasks PeriodicTaskMap `toml:"periodic_tasks"`
}

type runGroupSetting struct {
	Entries map[string]map[string]interface{} `toml:"run_group,omitempty"`
}

func NewRunContext() *RunContext {
	return &RunContext{
		Group:   &run.Group{},
		Context: context.Background(),
		RunGroupMaps: &RunGroupMaps{
			PeriodicTasks: make(PeriodicTaskMap),
		},
	}
}

// NewRunContextWithSettingPath builds the run group from the
// [run_group.periodic_tasks.<name>] tables of the setting file. Every named
// task must have an implementation in im.
func NewRunContextWithSettingPath(settingsPath string, im *ImplMaps) (*RunContext, error) {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read settings file/reason:%s", err))
		return nil, err
	}
	return newRunContextFromString(tomlString, settingsPath, im)
}

func newRunContextFromString(tomlString, settingsPath string, im *ImplMaps) (*RunContext, error) {
	s := &runGroupSetting{}
	if metadata, err := toml.Decode(tomlString, s); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to decode settings file. Reason:%s. Metadata:%v",
			err, metadata))
		return nil, err
	}
	for group := range s.Entries {
		if group != PERIODIC_TASKS {
			msg := fmt.Sprintf("Unknown run group type. Group:%s", group)
			zap.L().Error(msg)
			return nil, fmt.Errorf("%s", msg)
		}
	}

	rc := &RunContext{
		Group:        &run.Group{},
		Context:      context.Background(),
		settingsPath: settingsPath,
		RunGroupMaps: &RunGroupMaps{PeriodicTasks: make(PeriodicTaskMap)},
	}
	if metadata, err := toml.Decode(tomlString, rc); err != nil {
		zap.L().Error(fmt.Sprintf("Failed to decode settings file. Reason:%s. Metadata:%v",
			err, metadata))
		return nil, err
	}
	// decoding creates fresh PeriodicTask values, so the impls are attached afterwards
	for taskName, task := range rc.RunGroupMaps.PeriodicTasks {
		impl, ok := im.PeriodicTaskImplMap[taskName]
		if !ok {
			msg := fmt.Sprintf("failed to find %s implementation from PeriodicTaskImplMap", taskName)
			zap.L().Error(msg)
			return nil, fmt.Errorf("%s", msg)
		}
		task.PeriodicTaskImpl = impl
	}

	for name, task := range rc.RunGroupMaps.PeriodicTasks {
		if task.Period <= 0 {
			return nil, fmt.Errorf("period of %s must be positive", name)
		}
		if pr, ok := task.PeriodicTaskImpl.(PeriodReceiver); ok {
			pr.SetPeriod(task.Period)
		}
		zap.L().Debug(fmt.Sprintf("setting parameters to Impl/name:%s/params:%v", name, task.Params))
		if err := task.SetParams(task.Params); err != nil {
			zap.L().Error(fmt.Sprintf("failed to set parameters to Impl/name:%s/reason:%s", name, err))
			return nil, err
		}
		if err := task.Setup(); err != nil {
			zap.L().Error(fmt.Sprintf("failed to setup/name:%s/reason:%s", name, err))
			return nil, err
		}
		if err := rc.AddPeriodicTask(task, name); err != nil {
			zap.L().Error(fmt.Sprintf("failed to add runner/name:%s/reason:%s", name, err))
			return nil, err
		}
		zap.L().Info(fmt.Sprintf("successfully added runner/name:%s", name))
	}
	zap.L().Info("Successfully initialized RunContext", zap.Int("periodic_tasks", len(rc.RunGroupMaps.PeriodicTasks)))
	return rc, nil
}

func GetRunContext() *RunContext {
	return runContext
}

func SetRunContext(rc *RunContext) {
	runContext = rc
}

type PeriodicTask struct {
	Period time.Duration `toml:"period"`
	Params interface{}   `toml:"params,omitempty"`
	PeriodicTaskImpl
}

func (t *PeriodicTask) GetParams() interface{} {
	return t.Params
}

type PeriodicTaskImpl interface {
	RunnerImpl
	RequirePeriodUpdate() (ok bool, duration time.Duration)
	Task()
	Cleanup()
}

// PeriodReceiver is implemented by tasks that need their configured period,
// typically to restore it after a backoff.
type PeriodReceiver interface {
	SetPeriod(time.Duration)
}

type DefaultTaskImpl struct{}

func (v *DefaultTaskImpl) Setup() error {
	return nil
}

func (v *DefaultTaskImpl) GetEmptyParams() interface{} {
	return v
}

func (v *DefaultTaskImpl) SetParams(p interface{}) error {
	return nil
}

func (v *DefaultTaskImpl) RequirePeriodUpdate() (bool, time.Duration) {
	return false, 0
}

func (v *DefaultTaskImpl) Task() {}

func (v *DefaultTaskImpl) Cleanup() {}

func (rc *RunContext) AddPeriodicTask(t *PeriodicTask, taskName string) error {
	ctx, cancel := context.WithCancel(rc.Context)
	lastPeriod := t.Period
	rc.Group.Add(
		func() error {
			ticker := time.NewTicker(t.Period)
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/Start]", taskName))
			t.PeriodicTaskImpl.Task()
			for {
				select {
				case <-ctx.Done():
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaning up periodic task", taskName))
					ticker.Stop()
					t.PeriodicTaskImpl.Cleanup()
					zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cleaned up periodic task", taskName))
					return ctx.Err()
				case <-ticker.C:
					t.PeriodicTaskImpl.Task()
					ok, newPeriod := t.RequirePeriodUpdate()
					if ok && newPeriod > 0 && newPeriod != lastPeriod {
						zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/ResetPeriod]Resetting periodic task. from %v to %v",
							taskName, lastPeriod, newPeriod))
						ticker.Reset(newPeriod)
						lastPeriod = newPeriod
					}
				}
			}
		},
		func(error) {
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Cancelling periodic task", taskName))
			cancel()
			zap.L().Info(fmt.Sprintf("[PeriodicTask/%s/TearDown]Canceled periodic task", taskName))
		},
	)
	return nil
}
