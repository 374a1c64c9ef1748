package contracts

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, ManifestFormatVersion, info.ManifestFormat)
}

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "ecomreport v"+Version, GetVersionString())
	full := GetFullVersionString()
	assert.True(t, strings.HasPrefix(full, GetVersionString()+" (built: "))
	assert.Contains(t, full, runtime.GOOS+"/"+runtime.GOARCH)
	assert.False(t, IsPrerelease())
}
