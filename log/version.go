package log

import (
	"fmt"

	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"go.uber.org/zap"
)

const VersionLogTaskName = "version_log"

// VersionLogTaskImpl periodically logs the version and the non-secret part
// of the configuration so long running monitors can be identified.
type VersionLogTaskImpl struct {
	core.DefaultTaskImpl
}

func (v *VersionLogTaskImpl) Task() {
	if core.CurrentInfo == nil || core.CurrentInfo.Conf == nil {
		zap.L().Debug("qtelemetry version:" + core.Version)
		return
	}
	c := core.CurrentInfo.Conf
	zap.L().Debug(fmt.Sprintf("qtelemetry version:%s/workers:%d/max_qubits:%d/setting:%s",
		core.Version, c.Workers, c.MaxQubits, c.SettingPath))
}
