package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pitwall/core/model"
)

var samplePlan = model.StrategyPlan{
	Track:         "Bahrain",
	Year:          2024,
	Team:          "McLaren",
	Driver:        "NOR",
	TotalPitStops: 2,
	PitStopLaps:   []int{20, 45},
	TireStrategy:  []model.PitStop{{Lap: 20, Tire: "SOFT"}, {Lap: 45, Tire: "HARD"}},
}

func TestWritePlan_Text(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, writePlan(&b, samplePlan, "text"))
	assert.Equal(t, "Total Pit Stops: 2\nPit Stop Laps: [20 45]\nTire Strategy:\n"+
		"  - Lap 20: Switch to SOFT\n  - Lap 45: Switch to HARD\n", b.String())
}

func TestWritePlan_Table(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, writePlan(&b, samplePlan, "TABLE"))
	out := b.String()
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Bahrain 2024 - NOR (McLaren)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "╭"), "table should follow the heading: %q", lines[1])
	assert.Contains(t, out, "SOFT")
	assert.Contains(t, out, "HARD")
	assert.Contains(t, out, "45")
}

func TestWritePlan_JSON(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, writePlan(&b, samplePlan, "json"))
	var got model.StrategyPlan
	require.NoError(t, json.Unmarshal(b.Bytes(), &got))
	assert.Equal(t, samplePlan, got)
}

func TestWritePlan_UnknownFormat(t *testing.T) {
	assert.EqualError(t, writePlan(&bytes.Buffer{}, samplePlan, "xml"), `unknown format "xml"`)
}

func TestWriteModelsReport(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, writeModelsReport(&b, "models", []string{"HARD", "SOFT"}))
	assert.Equal(t, "models: models\nfeatures: 16 columns ok\ncompounds: HARD, SOFT\n", b.String())
}

func TestWriteRecords_UnknownFormat(t *testing.T) {
	assert.EqualError(t, writeRecords(&bytes.Buffer{}, nil, "xml"), `unknown format "xml"`)
}
