//go:build unit
// +build unit

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVersion(t *testing.T) {
	tests := []struct {
		name      string
		conf      *Conf
		buildFlag string
		want      string
	}{
		{name: "linker flag wins over conf", conf: &Conf{Version: "0.3.0"}, buildFlag: "0.4.0-rc1", want: "0.4.0-rc1"},
		{name: "linker flag alone", conf: &Conf{}, buildFlag: "0.4.0", want: "0.4.0"},
		{name: "conf when the flag is empty", conf: &Conf{Version: "0.3.0"}, want: "0.3.0"},
		{name: "placeholder when neither is set", conf: &Conf{}, want: NoVersion},
		{name: "nil conf", want: NoVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveVersion(tt.conf, tt.buildFlag))
		})
	}
}

func TestSetVersionOverwrites(t *testing.T) {
	saved := Version
	t.Cleanup(func() { Version = saved })

	SetVersion(&Conf{Version: "0.3.0"}, "")
	assert.Equal(t, "0.3.0", Version)
	SetVersion(&Conf{}, "")
	assert.Equal(t, "no_version_info", Version)
	assert.Equal(t, NoVersion, Version)
}
