// Package log holds the periodic tasks that write operational logs.
package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/qtelemetry/qtelemetry/coreapp/common"
	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"go.uber.org/zap"
)

const StatsLogTaskName = "stats_log"

// StatsLogTaskImpl appends the latest monitor stats as JSON lines to one
// file per day under FileDir.
type StatsLogTaskImpl struct {
	FileDir string `toml:"file_dir"`

	dl     *dailyWriter
	logger *slog.Logger
	sc     *core.SystemComponents

	core.DefaultTaskImpl
}

func (m *StatsLogTaskImpl) Setup() error {
	if err := common.IsDirWritable(m.FileDir); err != nil {
		zap.L().Error("failed to set up stats log task", zap.Error(err))
		return fmt.Errorf("failed to write to %s: %w", m.FileDir, err)
	}
	m.sc = core.GetSystemComponents()
	if m.sc == nil {
		return fmt.Errorf("system components are not set up")
	}
	m.dl = newDailyWriter(m.FileDir, time.Now)
	m.logger = slog.New(slog.NewJSONHandler(m.dl, nil))
	return nil
}

func (m *StatsLogTaskImpl) GetEmptyParams() interface{} {
	return m
}

func (m *StatsLogTaskImpl) SetParams(p interface{}) error {
	if p == nil {
		zap.L().Debug("no params for stats log task")
		return nil
	}
	mp, ok := p.(map[string]interface{})
	if !ok {
		msg := fmt.Errorf("failed to set params for stats log task/params: %v", p)
		zap.L().Error(msg.Error())
		return msg
	}
	if fileDir, ok := mp["file_dir"].(string); ok {
		m.FileDir = fileDir
	}
	return nil
}

func (m *StatsLogTaskImpl) Task() {
	stats := m.sc.LatestStats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st := stats[name]
		m.logger.Info(
			"Stats",
			slog.String("task", st.Task),
			slog.String("method", st.Method),
			slog.Int("samples", st.Samples),
			slog.Float64("latest", st.Latest),
			slog.Float64("max", st.Max),
			slog.Int("above_threshold", st.AboveThreshold),
			slog.Time("updated_at", st.UpdatedAt),
		)
	}
}

func (m *StatsLogTaskImpl) Cleanup() {
	if m.dl != nil {
		m.dl.Close()
	}
}

// dailyWriter switches to stats-YYYY-MM-DD.log when the date changes.
type dailyWriter struct {
	mu              sync.Mutex
	fileDir         string
	now             func() time.Time
	currentFileName string
	file            *os.File
}

func newDailyWriter(fileDir string, now func() time.Time) *dailyWriter {
	return &dailyWriter{
		fileDir: fileDir,
		now:     now,
	}
}

func (dw *dailyWriter) Write(p []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	fileName := fmt.Sprintf("stats-%s.log", dw.now().Format("2006-01-02"))
	if dw.file == nil || dw.currentFileName != fileName {
		if dw.file != nil {
			dw.file.Close()
		}
		f, err := os.OpenFile(filepath.Join(dw.fileDir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			dw.file = nil
			return 0, err
		}
		dw.file = f
		dw.currentFileName = fileName
	}
	return dw.file.Write(p)
}

func (dw *dailyWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.file == nil {
		return nil
	}
	err := dw.file.Close()
	dw.file = nil
	return err
}
