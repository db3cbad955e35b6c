package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialware/stratify/internal/assign"
	"github.com/trialware/stratify/internal/table"
)

func fixtureRun(t *testing.T, seed int64) (assign.Config, *table.Dataset, *assign.Result) {
	t.Helper()
	d, err := table.New([]string{"school_id"})
	require.NoError(t, err)
	for _, id := range []string{"A", "B", "C", "D"} {
		require.NoError(t, d.AppendRow([]table.Cell{table.String(id)}))
	}
	cfg := assign.Config{Seed: &seed, IDField: "school_id"}
	res, err := assign.Run(d, cfg)
	require.NoError(t, err)
	return cfg, d, res
}

func TestNew_DigestsAreDeterministic(t *testing.T) {
	cfgA, inA, resA := fixtureRun(t, 42)
	cfgB, inB, resB := fixtureRun(t, 42)

	a := New(cfgA, inA, resA)
	b := New(cfgB, inB, resB)

	assert.Equal(t, a.InputDigest, b.InputDigest)
	assert.Equal(t, a.OutputDigest, b.OutputDigest,
		"same (dataset, config) must yield the same output digest")
	assert.NotEqual(t, a.RunID, b.RunID, "run ids are per-invocation")
}

func TestNew_SeedChangesOutputDigestOnly(t *testing.T) {
	cfgA, inA, resA := fixtureRun(t, 1)
	cfgB, inB, resB := fixtureRun(t, 2)

	a := New(cfgA, inA, resA)
	b := New(cfgB, inB, resB)

	assert.Equal(t, a.InputDigest, b.InputDigest)
	assert.NotEqual(t, a.OutputDigest, b.OutputDigest)
}

func TestNew_RecordsReproducibility(t *testing.T) {
	d, err := table.New([]string{"school_id"})
	require.NoError(t, err)
	for _, id := range []string{"A", "B"} {
		require.NoError(t, d.AppendRow([]table.Cell{table.String(id)}))
	}
	cfg := assign.Config{IDField: "school_id"}
	res, err := assign.Run(d, cfg)
	require.NoError(t, err)

	m := New(cfg, d, res)
	assert.False(t, m.Reproducible)
	assert.Nil(t, m.Seed)
	require.Len(t, m.Warnings, 1)
	assert.Contains(t, m.Warnings[0], "NO_SEED")
}

func TestJSON_RoundTrips(t *testing.T) {
	cfg, in, res := fixtureRun(t, 7)
	m := New(cfg, in, res)

	data, err := m.JSON()
	require.NoError(t, err)

	var back Manifest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m.RunID, back.RunID)
	assert.Equal(t, m.OutputDigest, back.OutputDigest)
	assert.Equal(t, 4, back.Units)
}

func TestNewRunID_Unique(t *testing.T) {
	assert.NotEqual(t, NewRunID(), NewRunID())
}
