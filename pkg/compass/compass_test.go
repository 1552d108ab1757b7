package compass_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/compass/pkg/compass"
	"github.com/mesh-intelligence/compass/pkg/types"
)

func TestDetectFormat(t *testing.T) {
	jsonlDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(jsonlDir, "frameworks.jsonl"), []byte("{}\n"), 0o644))

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"no dir", "", compass.FormatBuiltin},
		{"jsonl dir", jsonlDir, compass.FormatJSONL},
		{"other dir", t.TempDir(), compass.FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compass.DetectFormat(tt.dir))
		})
	}
}

func TestLoadCatalogUnknownFormat(t *testing.T) {
	_, err := compass.LoadCatalog("xml", "")
	assert.ErrorIs(t, err, compass.ErrUnknownFormat)
}

func TestExportAndReload(t *testing.T) {
	c, err := compass.LoadCatalog(compass.FormatAuto, "")
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, compass.ExportCatalog(c, dir))

	reloaded, err := compass.LoadCatalog(compass.FormatAuto, dir)
	require.NoError(t, err)
	assert.Equal(t, c.Frameworks(), reloaded.Frameworks())
	assert.NotEqual(t, c.SnapshotID(), reloaded.SnapshotID())
}

func TestEngineFromPublicAPI(t *testing.T) {
	c, err := compass.LoadCatalog(compass.FormatBuiltin, "")
	require.NoError(t, err)
	eng, err := compass.New(c, compass.WithMinScore(0.2), compass.WithPhaseCapacity(2))
	require.NoError(t, err)

	cc := types.CompanyContext{
		Stage:    types.StageGrowth,
		Problems: []types.ProblemArchetype{types.ProblemTeamScaling},
		TeamSize: 25,
	}

	rec, err := eng.Recommend(context.Background(), cc, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(rec.Frameworks), 3)

	j, err := eng.PlanJourney(context.Background(), cc, 6)
	require.NoError(t, err)
	for _, p := range j.Phases {
		assert.LessOrEqual(t, len(p.Frameworks), 2)
	}
}
