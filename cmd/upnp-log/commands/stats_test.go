package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfwd/upnp-go/pkg/log"
)

func TestCollectStats(t *testing.T) {
	path := writeTestLog(t, sampleEvents()...)

	stats, err := CollectStats(path)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ByLayer[log.LayerDiscovery])
	assert.Equal(t, 1, stats.ByLayer[log.LayerDescription])
	assert.Equal(t, 1, stats.ByLayer[log.LayerControl])
	assert.Equal(t, 1, stats.ByCategory[log.CategoryAction])
	assert.Equal(t, 1, stats.Actions["AddPortMapping"])
	assert.Equal(t, 1, stats.Faults)
	assert.True(t, stats.Last.After(stats.First))
}

func TestRunStats(t *testing.T) {
	path := writeTestLog(t, sampleEvents()...)

	var buf bytes.Buffer
	require.NoError(t, RunStats(path, &buf))

	out := buf.String()
	assert.Contains(t, out, "Events: 3")
	assert.Contains(t, out, "DISCOVERY")
	assert.Contains(t, out, "AddPortMapping")
	assert.Contains(t, out, "Faults: 1")
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := writeTestLog(t)

	var buf bytes.Buffer
	require.NoError(t, RunStats(path, &buf))
	assert.Contains(t, buf.String(), "Events: 0")
}
