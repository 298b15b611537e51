package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlens/flowlens/schema"
)

// validInput returns a minimal raw input that passes validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Period:  "PI-2026.3",
		Backend: "sqlite",
		Output:  "text",
	}
}

// TestProcessAndValidateDefaults tests that empty inputs resolve to the
// documented defaults.
func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, DefaultStageOrder, cfg.StageOrder)
	assert.Equal(t, DefaultActiveStages, cfg.ActiveStages)
	assert.Equal(t, DefaultDoneStatuses, cfg.DoneStatuses)
	assert.Equal(t, DefaultStuckThresholdDays, cfg.StuckThresholdDays)
	assert.Equal(t, DefaultTargetLeadTime, cfg.TargetLeadTimeDays)
	assert.Equal(t, DefaultLookbackPeriods, cfg.LookbackPeriods)
	assert.Equal(t, DefaultMinSampleSize, cfg.MinSampleSize)
	assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.True(t, cfg.UseColors)
}

// TestProcessAndValidateDefaultBackend tests that an unset backend falls
// back to the JSON export source.
func TestProcessAndValidateDefaultBackend(t *testing.T) {
	input := validInput()
	input.Backend = ""
	input.Input = "export.json"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.JSONBackend, cfg.Backend)
}

// TestProcessAndValidateWindow tests window parsing and ordering.
func TestProcessAndValidateWindow(t *testing.T) {
	t.Run("date-only flags", func(t *testing.T) {
		input := validInput()
		input.Start = "2026-06-01"
		input.End = "2026-08-24"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), cfg.Window.Start)
	})

	t.Run("RFC3339 flags", func(t *testing.T) {
		input := validInput()
		input.Start = "2026-06-01T09:30:00Z"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 9, cfg.Window.Start.Hour())
	})

	t.Run("end before start", func(t *testing.T) {
		input := validInput()
		input.Start = "2026-08-24"
		input.End = "2026-06-01"
		err := ProcessAndValidate(&Config{}, input)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "window", cfgErr.Field)
	})

	t.Run("garbage date", func(t *testing.T) {
		input := validInput()
		input.Start = "yesterday"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})
}

// TestProcessAndValidateRejections tests fail-fast on bad values.
func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"negative stuck threshold", func(in *ConfigRawInput) { in.StuckThreshold = -1 }},
		{"negative lookback", func(in *ConfigRawInput) { in.Lookback = -2 }},
		{"unsupported output", func(in *ConfigRawInput) { in.Output = "xml" }},
		{"unsupported backend", func(in *ConfigRawInput) { in.Backend = "oracle" }},
		{"json backend without input", func(in *ConfigRawInput) { in.Backend = "json"; in.Input = "" }},
		{"parquet without output file", func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "" }},
		{"malformed stage thresholds", func(in *ConfigRawInput) { in.StageThresholds = "Testing" }},
		{"negative stage duration", func(in *ConfigRawInput) { in.ExpectedDays = "Testing=-2" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

// TestProcessAndValidateStageLists tests list and mapping parsing.
func TestProcessAndValidateStageLists(t *testing.T) {
	input := validInput()
	input.StageOrder = "Triage, Build ,Verify"
	input.StageThresholds = "Build=7, Verify=3.5"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, []string{"Triage", "Build", "Verify"}, cfg.StageOrder)
	assert.Equal(t, 7.0, cfg.StageThreshold("Build"))
	assert.Equal(t, 3.5, cfg.StageThreshold("Verify"))
	assert.Equal(t, DefaultStuckThresholdDays, cfg.StageThreshold("Triage"), "falls back to the global threshold")
}

// TestProcessAndValidateSeverityLadder tests ladder overrides and their
// ordering constraints.
func TestProcessAndValidateSeverityLadder(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validInput()))
		assert.Equal(t, DefaultSeverityThresholds, cfg.Severity)
	})

	t.Run("override both ladders", func(t *testing.T) {
		input := validInput()
		input.SeverityLead = "90, 60, 40"
		input.SeverityEff = "20,35,55"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 90.0, cfg.Severity.LeadTimeCritical)
		assert.Equal(t, 40.0, cfg.Severity.LeadTimeInfo)
		assert.Equal(t, 20.0, cfg.Severity.EffCritical)
		assert.Equal(t, 55.0, cfg.Severity.EffInfo)
	})

	t.Run("rejections", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*ConfigRawInput)
		}{
			{"too few lead bounds", func(in *ConfigRawInput) { in.SeverityLead = "60,45" }},
			{"non-numeric bound", func(in *ConfigRawInput) { in.SeverityEff = "30,forty,50" }},
			{"lead bounds not descending", func(in *ConfigRawInput) { in.SeverityLead = "30,45,60" }},
			{"efficiency bounds not ascending", func(in *ConfigRawInput) { in.SeverityEff = "50,40,30" }},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				input := validInput()
				tc.mutate(input)
				assert.Error(t, ProcessAndValidate(&Config{}, input))
			})
		}
	})
}

// TestConfigClone tests that derived runs cannot mutate the original.
func TestConfigClone(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))
	cfg.StageThresholds = map[string]float64{"Testing": 5}

	clone := cfg.Clone()
	clone.StageOrder[0] = "mutated"
	clone.StageThresholds["Testing"] = 99

	assert.Equal(t, "Backlog", cfg.StageOrder[0])
	assert.Equal(t, 5.0, cfg.StageThresholds["Testing"])
}

// TestStageSetMembership tests active-stage and done-status checks.
func TestStageSetMembership(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.True(t, cfg.IsActiveStage("In Progress"))
	assert.False(t, cfg.IsActiveStage("Backlog"))
	assert.True(t, cfg.IsDoneStatus("done"), "status match is case-insensitive")
	assert.False(t, cfg.IsDoneStatus("Blocked"))
}

// TestGetPlainLabel tests the congestion label thresholds.
func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, LowValue, GetPlainLabel(99.9))
	assert.Equal(t, ModerateValue, GetPlainLabel(100))
	assert.Equal(t, HighValue, GetPlainLabel(120))
	assert.Equal(t, CriticalValue, GetPlainLabel(150))
}

// TestInsufficientDataError tests sentinel unwrapping.
func TestInsufficientDataError(t *testing.T) {
	err := &InsufficientDataError{Got: 2, Need: 5}
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Contains(t, err.Error(), "2 completed items")
}
