package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchSpecScenarios(t *testing.T) {
	assert.Len(t, Defaults.Tags, 2)
	assert.Equal(t, "3100037D93", Defaults.Tags[0].ID)
	assert.Equal(t, 5*60, Defaults.Tags[0].MaxTime)
}

func TestLoadFallsBackToDefaultsWithoutConfigFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg := Load()
	assert.Equal(t, Defaults.Tags, cfg.Tags)
	assert.Equal(t, Defaults.UplinkHost, cfg.UplinkHost)
}

func TestRegistryTagsConverts(t *testing.T) {
	cfg := Config{Tags: []Tag{{ID: "AAAAAAAAAA", MaxTime: 60}}}
	tags := cfg.RegistryTags()
	assert.Len(t, tags, 1)
	assert.Equal(t, "AAAAAAAAAA", tags[0].ID)
	assert.Equal(t, 60, tags[0].MaxTime)
}
