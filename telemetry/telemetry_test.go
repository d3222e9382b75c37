//go:build unit
// +build unit

package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/qtelemetry/qtelemetry/coreapp/common"
	"github.com/qtelemetry/qtelemetry/coreapp/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"
)

func withSetting(t *testing.T, s *Setting) {
	t.Helper()
	core.ResetSetting()
	core.RegisterSetting(SettingKey, s)
}

func assetPath(t *testing.T, name string) string {
	t.Helper()
	p, err := common.GetAssetAbsPath(name)
	require.Nil(t, err)
	return p
}

func TestCSVLoadMagnitude(t *testing.T) {
	withSetting(t, NewDefaultSetting())
	l := NewCSVLoader()
	require.Nil(t, l.Setup(&core.Conf{}))

	s, err := l.Load(assetPath(t, "voyager2_jupiter_s3.tab"))
	require.Nil(t, err)
	assert.Equal(t, 21, s.Len())
	values, err := s.Values()
	require.Nil(t, err)
	assert.Equal(t, 4.0, values[0])
	assert.Equal(t, 12.0, values[16])
	assert.Equal(t, time.Date(1979, 7, 8, 23, 58, 0, 0, time.UTC), s.Times[0])
	assert.Equal(t, time.Date(1979, 7, 9, 0, 10, 0, 0, time.UTC), s.Times[16])
	assert.True(t, strings.HasSuffix(s.Source, "voyager2_jupiter_s3.tab"))
}

func TestCSVLoadVector(t *testing.T) {
	st := NewDefaultSetting()
	st.ValueColumns = VectorColumns()
	withSetting(t, st)
	l := NewCSVLoader()
	require.Nil(t, l.Setup(&core.Conf{}))

	s, err := l.Load(assetPath(t, "voyager2_jupiter_s3.tab"))
	require.Nil(t, err)
	// the NaNx row is dropped as well
	assert.Equal(t, 20, s.Len())
	d, err := s.Dim()
	require.Nil(t, err)
	assert.Equal(t, 3, d)
	assert.Equal(t, core.Sample{11.25, -2.5, 0.75}, s.Samples[15])
	assert.Equal(t, core.Sample{1.25, -2.5, 0.75}, s.Samples[0])
}

func TestCSVStrict(t *testing.T) {
	st := NewDefaultSetting()
	st.SkipBadLines = false
	withSetting(t, st)
	l := NewCSVLoader()
	require.Nil(t, l.Setup(&core.Conf{}))

	_, err := l.Load(assetPath(t, "voyager2_jupiter_s3.tab"))
	var due *core.DataUnavailableError
	require.True(t, errors.As(err, &due))
	assert.Contains(t, err.Error(), "line 10")
}

func TestCSVWindow(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantLen  int
		wantErr  bool
		wantData bool
	}{
		{name: "unbounded", wantLen: 21},
		{name: "inclusive bounds", start: "1979-07-09T00:10:00", end: "1979-07-09 00:11:36", wantLen: 3},
		{name: "start only", start: "1979-07-09T00:12:24.000", wantLen: 2},
		{name: "date only end", end: "1979-07-09", wantLen: 3},
		{name: "empty window", start: "1980-01-01", wantErr: true, wantData: true},
		{name: "bad bound", start: "yesterday", wantErr: true},
		{name: "reversed", start: "1979-07-09", end: "1979-07-08", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewDefaultSetting()
			st.Start = tt.start
			st.End = tt.end
			withSetting(t, st)
			l := NewCSVLoader()
			err := l.Setup(&core.Conf{})
			if err == nil {
				var s *core.Series
				s, err = l.Load(assetPath(t, "voyager2_jupiter_s3.tab"))
				if err == nil {
					assert.Equal(t, tt.wantLen, s.Len())
				}
			}
			if tt.wantErr {
				assert.NotNil(t, err)
				var due *core.DataUnavailableError
				assert.Equal(t, tt.wantData, errors.As(err, &due))
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestCSVRead(t *testing.T) {
	in := heredoc.Doc(`
		# time;value
		2024-01-01 00:00;1.5
		2024-01-01 00:01; 2.5

		2024-01-01 00:02;inf
		2024-01-01 00:03
		2024-01-01 00:04;3.5
	`)
	st := NewDefaultSetting()
	st.Delimiter = ";"
	st.ValueColumns = []int{1}
	withSetting(t, st)
	l := NewCSVLoader()
	require.Nil(t, l.Setup(&core.Conf{}))

	s, err := l.Read(strings.NewReader(in), "inline")
	require.Nil(t, err)
	assert.Equal(t, "inline", s.Source)
	values, err := s.Values()
	require.Nil(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, values)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 4, 0, 0, time.UTC), s.Times[2])
}

func TestLoaderTearDown(t *testing.T) {
	in := heredoc.Doc(`
		2024-01-01 00:00,1.5
		2024-01-01 00:01,inf
		2024-01-01 00:02
		2024-01-01 00:03,3.5
	`)
	st := NewDefaultSetting()
	st.ValueColumns = []int{1}
	withSetting(t, st)
	l := NewCSVLoader()
	require.Nil(t, l.Setup(&core.Conf{}))

	for i := 0; i < 2; i++ {
		_, err := l.Read(strings.NewReader(in), "inline")
		require.Nil(t, err)
	}
	_, err := l.Read(strings.NewReader("# header only\n"), "empty")
	require.NotNil(t, err)
	assert.Equal(t, LoadStats{Loads: 2, Samples: 4, BadLines: 4}, l.Stats())

	var td interface{ TearDown() error } = l
	assert.Nil(t, td.TearDown())
	assert.Equal(t, LoadStats{}, l.Stats())

	var a interface{ TearDown() error } = NewASCLoader()
	assert.Nil(t, a.TearDown())
}

func TestSystemComponentsTearDownLoader(t *testing.T) {
	withSetting(t, NewDefaultSetting())
	c := dig.New()
	l := NewCSVLoader()
	require.Nil(t, c.Provide(func() core.TelemetryLoader { return l }))
	require.Nil(t, c.Provide(func() core.StateEncoder { return &core.UnimplementedEncoder{} }))
	s := core.NewSystemComponents(c)
	require.Nil(t, s.Setup(&core.Conf{}))

	_, err := l.Read(strings.NewReader("2024-01-01 00:00,1,2,3,4\n"), "inline")
	require.Nil(t, err)
	assert.Equal(t, int64(1), l.Stats().Loads)
	assert.Nil(t, s.TearDown())
	assert.Equal(t, LoadStats{}, l.Stats())
}

func TestLoadUnavailable(t *testing.T) {
	withSetting(t, NewDefaultSetting())
	tests := []struct {
		name   string
		loader core.TelemetryLoader
	}{
		{name: "csv", loader: NewCSVLoader()},
		{name: "asc", loader: NewASCLoader()},
	}
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.tab")
	require.Nil(t, os.WriteFile(empty, []byte("\n"), 0o644))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Nil(t, tt.loader.Setup(&core.Conf{}))
			for _, p := range []string{filepath.Join(dir, "missing.tab"), empty} {
				_, err := tt.loader.Load(p)
				var due *core.DataUnavailableError
				assert.True(t, errors.As(err, &due), p)
				assert.Equal(t, p, due.Source)
			}
		})
	}
}

func TestASCLoad(t *testing.T) {
	withSetting(t, NewDefaultSetting())
	l := NewASCLoader()
	require.Nil(t, l.Setup(&core.Conf{}))

	s, err := l.Load(assetPath(t, "voyager2_magnetic_1979.asc"))
	require.Nil(t, err)
	assert.Equal(t, 12, s.Len())
	values, err := s.Values()
	require.Nil(t, err)
	assert.Equal(t, 9.5, values[8])
	assert.Equal(t, 5.5, values[11])
	assert.Equal(t, time.Date(1979, 7, 8, 10, 0, 0, 0, time.UTC), s.Times[0])
	assert.Equal(t, time.Date(1979, 7, 8, 12, 0, 0, 0, time.UTC), s.Times[8])
	assert.Equal(t, time.Date(1979, 7, 8, 12, 45, 0, 0, time.UTC), s.Times[11])
}

func TestASCTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "first day", in: "2 1 1979 1 0.0 1", want: time.Date(1979, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "fractional hour", in: "2 1 1979 189 10.5 1", want: time.Date(1979, 7, 8, 10, 30, 0, 0, time.UTC)},
		{name: "leap year", in: "2 1 1980 366 23.75 1", want: time.Date(1980, 12, 31, 23, 45, 0, 0, time.UTC)},
		{name: "day zero", in: "2 1 1979 0 1.0 1", wantErr: true},
		{name: "hour 24", in: "2 1 1979 10 24 1", wantErr: true},
		{name: "short row", in: "2 1 1979", wantErr: true},
		{name: "bad year", in: "2 1 x 10 1.0 1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ascTime(strings.Fields(tt.in))
			if tt.wantErr {
				assert.NotNil(t, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestASCReadSkipsComments(t *testing.T) {
	in := heredoc.Doc(`
		# sc flag year doy hour bmag
		2 1 1979 189 10.0 5.5
		2 1 1979 189 10.25 bad
		2 1 1979 189 10.5 6.5
	`)
	withSetting(t, NewDefaultSetting())
	l := NewASCLoader()
	require.Nil(t, l.Setup(&core.Conf{}))
	s, err := l.Read(strings.NewReader(in), "inline")
	require.Nil(t, err)
	values, _ := s.Values()
	assert.Equal(t, []float64{5.5, 6.5}, values)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "1979-07-09T00:10:00.000Z", want: time.Date(1979, 7, 9, 0, 10, 0, 0, time.UTC)},
		{in: "1979-07-09T00:10:00.250", want: time.Date(1979, 7, 9, 0, 10, 0, 250000000, time.UTC)},
		{in: " 1979-07-09 00:10 ", want: time.Date(1979, 7, 9, 0, 10, 0, 0, time.UTC)},
		{in: "1979-07-09", want: time.Date(1979, 7, 9, 0, 0, 0, 0, time.UTC)},
		{in: "09/07/1979", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if tt.wantErr {
				assert.NotNil(t, err)
				return
			}
			assert.Nil(t, err)
			assert.True(t, tt.want.Equal(got), got)
		})
	}
}

func TestSetupRejectsForeignSetting(t *testing.T) {
	core.ResetSetting()
	core.RegisterSetting(SettingKey, map[string]string{})
	assert.NotNil(t, NewCSVLoader().Setup(&core.Conf{}))
}
