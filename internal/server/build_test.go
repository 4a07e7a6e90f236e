package server

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/agenthands/evalharness/internal/config"
	"github.com/agenthands/evalharness/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig writes a 2x2-pixel dataset and a linear model that predicts 1
// whenever the top-left pixel is brighter than the bottom-right one.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	data := "label,p0,p1,p2,p3\n" +
		"1,255,0,0,0\n" + // correct
		"0,0,0,0,255\n" + // correct
		"0,200,10,10,0\n" // predicted 1
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.csv"), []byte(data), 0o644))

	model := `{"classes":[0,1],"weights":[[-1,0,0,1],[1,0,0,-1]],"bias":[0,0]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte(model), 0o644))

	cfg := config.Default()
	cfg.Dataset.Path = filepath.Join(dir, "test.csv")
	cfg.Classifier.ModelPath = filepath.Join(dir, "model.json")
	cfg.Artifacts = config.ArtifactConfig{Dir: filepath.Join(dir, "images"), Width: 2, Height: 2, Scale: 3}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestBuild_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	srv, err := Build(cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	f := fixture{router: srv.SetupRouter()}

	for idx, want := range []core.Result{
		{Prediction: 1, TrueLabel: 1, Correct: 1},
		{Prediction: 0, TrueLabel: 0, Correct: 2},
		{Prediction: 1, TrueLabel: 0, Correct: 2, Incorrect: 1, IsIncorrect: true},
	} {
		w := f.do(t, http.MethodPost, "/predict", fmt.Sprintf(`{"index": %d}`, idx))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, decodeBody[core.Result](t, w))
	}

	raw, err := os.ReadFile(filepath.Join(cfg.Artifacts.Dir, "incorrect_1.png"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())

	w := f.do(t, http.MethodPost, "/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	entries, err := os.ReadDir(cfg.Artifacts.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	w = f.do(t, http.MethodGet, "/metrics", "")
	assert.Contains(t, w.Body.String(), "evalharness_resets_total 1")
}

func TestBuild_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "missing.csv")
	_, err := Build(cfg, nil)
	assert.ErrorContains(t, err, "failed to load dataset")

	cfg = testConfig(t)
	cfg.Classifier.Provider = "forest"
	cfg.Classifier.ReferencePath = filepath.Join(t.TempDir(), "missing.csv")
	_, err = Build(cfg, nil)
	assert.ErrorContains(t, err, "failed to initialize classifier")
}

func TestBuild_NilRegistry(t *testing.T) {
	srv, err := Build(testConfig(t), nil)
	require.NoError(t, err)
	assert.Nil(t, srv.Gatherer)

	f := fixture{router: srv.SetupRouter()}
	w := f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
