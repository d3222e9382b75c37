package core

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/qtelemetry/qtelemetry/coreapp/common"
	"go.uber.org/zap"
)

var globalSetting *Setting

// Setting holds the component settings read from the [com.<name>] tables of
// the setting file. Each component registers a pointer to its own struct,
// pre-filled with defaults, and the matching table is decoded into it.
type Setting struct {
	ComponentSetting map[string]interface{}
}

type settingFile struct {
	Com map[string]toml.Primitive `toml:"com,omitempty"`
}

func ResetSetting() {
	globalSetting = newSetting()
}

func RegisterSetting(settingName string, settingVal interface{}) {
	globalSetting.registerSetting(settingName, settingVal)
}

func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return err
	}
	return globalSetting.parseSetting(tomlString)
}

func GetGlobalSetting() *Setting {
	return globalSetting
}

func GetComponentSetting(name string) (interface{}, bool) {
	if globalSetting == nil {
		zap.L().Error("Setting is not initialized")
		return nil, false
	}
	val, ok := globalSetting.ComponentSetting[name]
	return val, ok
}

func newSetting() *Setting {
	return &Setting{
		ComponentSetting: make(map[string]interface{}),
	}
}

func (s *Setting) registerSetting(settingName string, settingVal interface{}) {
	s.ComponentSetting[settingName] = settingVal
}

func (s *Setting) parseSetting(tomlString string) error {
	f := &settingFile{}
	md, err := toml.Decode(tomlString, f)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	for name, prim := range f.Com {
		target, ok := s.ComponentSetting[name]
		if !ok {
			zap.L().Warn(fmt.Sprintf("no component is registered for setting:%s", name))
			continue
		}
		if err := md.PrimitiveDecode(prim, target); err != nil {
			zap.L().Error(fmt.Sprintf("failed to decode setting:%s/reason:%s", name, err))
			return err
		}
	}
	zap.L().Debug(fmt.Sprintf("Setting is %v", s.ComponentSetting))
	return nil
}
