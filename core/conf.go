package core

type Conf struct {
	Version            string `long:"version" description:"version of qtelemetry" env:"QTELEMETRY_VERSION"`
	DevMode            bool   `long:"dev-mode" description:"run in dev mode" env:"QTELEMETRY_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"QTELEMETRY_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable log in file" env:"QTELEMETRY_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"QTELEMETRY_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"QTELEMETRY_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"QTELEMETRY_LOG_ROTATION_MAX_DAYS"`
	SettingPath        string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"QTELEMETRY_SETTING_PATH"`
	Workers            int    `long:"workers" description:"number of workers scanning a series concurrently" default:"1" env:"QTELEMETRY_WORKERS"`
	MaxQubits          int    `long:"max-qubits" description:"largest register the statevector encoder accepts" default:"16" env:"QTELEMETRY_MAX_QUBITS"`
}
