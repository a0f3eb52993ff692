package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commschamp/commsdslgen/internal/codegen/common"
)

func TestParseToolVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    common.ToolVersion
		str     string
		wantErr bool
	}{
		{in: "1.2.3", want: common.ToolVersion{Major: 1, Minor: 2, Patch: 3}, str: "1.2.3"},
		{in: "v7.0", want: common.ToolVersion{Major: 7}, str: "7.0.0"},
		{in: "2.1.0-dirty", want: common.ToolVersion{Major: 2, Minor: 1, Suffix: "dirty"}, str: "2.1.0-dirty"},
		{in: "0.0.1-dev", want: common.ToolVersion{Patch: 1, Suffix: "dev"}, str: "0.0.1-dev"},
		{in: "3", wantErr: true},
		{in: "1.2.3.4", wantErr: true},
		{in: "1.x.3", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := common.ParseToolVersion(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
			assert.Equal(t, tt.str, v.String())
		})
	}
}

func TestCurrentVersion(t *testing.T) {
	saved := common.Version
	t.Cleanup(func() { common.Version = saved })

	common.Version = ""
	v, err := common.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, "0.0.1-dev", v.String())

	common.Version = "v1.4.2"
	v, err = common.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, common.ToolVersion{Major: 1, Minor: 4, Patch: 2}, v)

	common.Version = "nightly"
	_, err = common.CurrentVersion()
	assert.Error(t, err)
}
