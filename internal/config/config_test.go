package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	loader, err := NewLoader(writeConfigFile(t, ""))
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Scheduler.Weights)
	assert.Equal(t, 0.9, cfg.Scheduler.RequestRetention)
	assert.Equal(t, 365, cfg.Scheduler.MaximumIntervalDays)
	assert.Equal(t, LearningStepConfig{Again: 1, Hard: 5, Good: 10, Easy: 60}, cfg.Scheduler.LearningStepMinutes)
	assert.Equal(t, 2, cfg.Scheduler.GraduationSteps)
	assert.Equal(t, 0.05, cfg.Scheduler.FuzzFraction)
	assert.Equal(t, 20, cfg.Study.DailyNewLimit)
	assert.Equal(t, 200, cfg.Study.DailyReviewLimit)
	assert.Equal(t, 21.0, cfg.Study.MasteryStabilityThresholdDays)
	assert.Equal(t, "yaml", cfg.Store.Backend)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_Overrides(t *testing.T) {
	loader, err := NewLoader(writeConfigFile(t, `
scheduler:
  request_retention: 0.85
  maximum_interval_days: 180
  graduation_steps: 3
study:
  daily_new_limit: 5
  daily_review_limit: 50
store:
  backend: mysql
database:
  host: db.internal
  port: 3307
`))
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 0.85, cfg.Scheduler.RequestRetention)
	assert.Equal(t, 180, cfg.Scheduler.MaximumIntervalDays)
	assert.Equal(t, 3, cfg.Scheduler.GraduationSteps)
	assert.Equal(t, 5, cfg.Study.DailyNewLimit)
	assert.Equal(t, 50, cfg.Study.DailyReviewLimit)
	assert.Equal(t, "mysql", cfg.Store.Backend)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3307, cfg.Database.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "retention out of range",
			content: `
scheduler:
  request_retention: 1.2
`,
		},
		{
			name: "wrong weight count",
			content: `
scheduler:
  weights: [0.4, 0.6, 2.4]
`,
		},
		{
			name: "unknown store backend",
			content: `
store:
  backend: redis
`,
		},
		{
			name: "zero learning step",
			content: `
scheduler:
  learning_step_minutes:
    again: 0
`,
		},
		{
			name: "negative daily limit",
			content: `
study:
  daily_new_limit: -1
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, err := NewLoader(writeConfigFile(t, tt.content))
			require.NoError(t, err)

			_, err = loader.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_PasswordFromEnv(t *testing.T) {
	t.Setenv("KIOKU_DB_PASSWORD", "sekret")

	loader, err := NewLoader(writeConfigFile(t, ""))
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "sekret", cfg.Database.Password)
}

func TestSchedulerConfig_Parameters(t *testing.T) {
	t.Run("defaults pass through", func(t *testing.T) {
		cfg := SchedulerConfig{
			RequestRetention:    0.9,
			MaximumIntervalDays: 365,
			LearningStepMinutes: LearningStepConfig{Again: 1, Hard: 5, Good: 10, Easy: 60},
			GraduationSteps:     2,
			FuzzFraction:        0.05,
		}
		params, err := cfg.Parameters()
		require.NoError(t, err)
		assert.Nil(t, params.Weights)
		assert.Equal(t, 0.9, params.RequestRetention)
		assert.Equal(t, 365, params.MaximumIntervalDays)
		assert.Equal(t, 2, params.GraduationSteps)
	})

	t.Run("explicit weights are copied", func(t *testing.T) {
		weights := make([]float64, 17)
		for i := range weights {
			weights[i] = float64(i) + 0.5
		}
		cfg := SchedulerConfig{Weights: weights, RequestRetention: 0.9}
		params, err := cfg.Parameters()
		require.NoError(t, err)
		require.NotNil(t, params.Weights)
		assert.Equal(t, 0.5, params.Weights[0])
		assert.Equal(t, 16.5, params.Weights[16])
	})

	t.Run("wrong length is rejected", func(t *testing.T) {
		cfg := SchedulerConfig{Weights: []float64{1, 2, 3}}
		_, err := cfg.Parameters()
		assert.Error(t, err)
	})
}
