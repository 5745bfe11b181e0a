package configstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kintsugidata/kintsugi/internal/adapters/outbound/configstore"
	"github.com/kintsugidata/kintsugi/internal/domain"
)

func minRows(n int) *int { return &n }

const sampleYAML = `pipeline: orders
source_path: data/raw/orders.csv
quality:
  row_count_min: 3
columns:
  - name: order_id
    type: int
    required: true
  - name: amount
    type: float
    max_null_fraction: 0.1
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configstore.FileName), []byte(sampleYAML), 0644))

	cfg, err := configstore.New(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "orders", cfg.Pipeline)
	require.NotNil(t, cfg.Quality.RowCountMin)
	assert.Equal(t, 3, *cfg.Quality.RowCountMin)
	require.Len(t, cfg.Columns, 2)
	assert.Equal(t, "order_id", cfg.Columns[0].Name)
	assert.True(t, cfg.Columns[0].Required)
	require.NotNil(t, cfg.Columns[1].MaxNullFraction)
	assert.Equal(t, 0.1, *cfg.Columns[1].MaxNullFraction)

	// Defaults filled in for unset fields.
	assert.Equal(t, domain.DefaultProfilePath, cfg.Drift.ProfilePath)
	assert.Equal(t, domain.DefaultMeanRelativeTolerance, cfg.Drift.MeanRelativeTolerance)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := configstore.New(t.TempDir()).Load()
	require.Error(t, err)

	var ce *domain.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configstore.FileName), []byte("pipeline: [unclosed"), 0644))

	_, err := configstore.New(dir).Load()
	require.Error(t, err)

	var ce *domain.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestLoad_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configstore.FileName),
		[]byte("pipeline: orders\nsource_path: a.csv\ncolumns:\n  - name: x\n    type: decimal\n"), 0644))

	_, err := configstore.New(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := configstore.New(dir)

	frac := 0.35
	cfg := domain.PipelineConfig{
		Pipeline:   "orders",
		SourcePath: "orders.csv",
		Quality:    domain.QualitySettings{RowCountMin: minRows(2)},
		Drift:      domain.DriftSettings{ProfilePath: "p.json", MeanRelativeTolerance: 0.5},
		Columns: []domain.ColumnRule{
			{Name: "order_id", Type: domain.ColumnInt, Required: true},
			{Name: "amount", Type: domain.ColumnFloat, MaxNullFraction: &frac},
		},
	}

	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveLoad_ZeroRowCountMinSurvivesReload(t *testing.T) {
	// Healing may lower the minimum all the way to zero for an empty
	// dataset; reloading must not quietly raise it back to the default.
	dir := t.TempDir()
	store := configstore.New(dir)

	cfg := domain.PipelineConfig{
		Pipeline:   "orders",
		SourcePath: "orders.csv",
		Quality:    domain.QualitySettings{RowCountMin: minRows(0)},
	}

	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.Quality.RowCountMin)
	assert.Equal(t, 0, *loaded.Quality.RowCountMin)
	assert.Equal(t, 0, loaded.Quality.MinRows())
}

func TestSave_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	store := configstore.New(dir)
	require.NoError(t, os.WriteFile(store.Path(), []byte(sampleYAML), 0644))

	cfg, err := store.Load()
	require.NoError(t, err)
	cfg.Quality.RowCountMin = minRows(1)

	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Quality.MinRows())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
