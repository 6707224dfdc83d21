package hexgrid

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestScore_WeightedSum(t *testing.T) {
	layers := map[string]int64{
		"synagogues":         2, // 2 * 2.5 = 5.0
		"kosher_restaurants": 3, // 3 * 1.3 = 3.9
		"jewish_museums":     1, // 1 * 0.8 = 0.8
	}

	got := Score(layers, "jewish")
	want := 9.7
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScore_UnknownLayersIgnored(t *testing.T) {
	layers := map[string]int64{
		"population_density": 5000, // display-only overlay, no weight
		"chabad":             1,
	}

	got := Score(layers, "jewish")
	if got != 2.0 {
		t.Errorf("Score = %v, want 2.0 (unweighted layers must not contribute)", got)
	}
}

func TestScore_UnknownMode(t *testing.T) {
	if got := Score(map[string]int64{"churches": 10}, "nope"); got != 0 {
		t.Errorf("Score for unknown mode = %v, want 0", got)
	}
}

func TestScore_GoyWeights(t *testing.T) {
	layers := map[string]int64{
		"churches": 4, // 4 * 2.5 = 10.0
		"walmart":  2, // 2 * 1.5 = 3.0
	}
	if got := Score(layers, "goy"); math.Abs(got-13.0) > 1e-9 {
		t.Errorf("Score = %v, want 13.0", got)
	}
}

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": 1,
      "properties": {
        "h3": "872a1072bffffff",
        "cdi": 64,
        "nearest_city": "Brooklyn",
        "layer_synagogues": 12,
        "layer_kosher_restaurants": 8
      },
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    },
    {
      "type": "Feature",
      "id": 2,
      "properties": {
        "h3": "872a10c25ffffff",
        "layer_chabad": 2
      },
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    }
  ]
}`

func writeDataFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoad_ParsesCells(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "hex_res7.json", sampleGeoJSON)

	store, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	cell, ok := store.Cell("jewish", 7, "872a1072bffffff")
	if !ok {
		t.Fatal("expected cell 872a1072bffffff to be loaded")
	}
	if cell.Score != 64 {
		t.Errorf("cell score = %v, want 64", cell.Score)
	}
	if cell.NearestCity != "Brooklyn" {
		t.Errorf("nearest city = %q, want Brooklyn", cell.NearestCity)
	}
	if cell.Layers["synagogues"] != 12 || cell.Layers["kosher_restaurants"] != 8 {
		t.Errorf("layers parsed wrong: %v", cell.Layers)
	}
}

func TestLoad_RecomputesMissingScore(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "hex_res7.json", sampleGeoJSON)

	store, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Second feature has no cdi property; score comes from the weights.
	cell, ok := store.Cell("jewish", 7, "872a10c25ffffff")
	if !ok {
		t.Fatal("expected cell 872a10c25ffffff to be loaded")
	}
	if math.Abs(cell.Score-4.0) > 1e-9 { // 2 chabad * 2.0
		t.Errorf("recomputed score = %v, want 4.0", cell.Score)
	}
}

func TestLoad_MissingFilesSkipped(t *testing.T) {
	store, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() of empty dir should not fail: %v", err)
	}

	if _, ok := store.Collection("jewish", 7); ok {
		t.Error("no collection should be loaded from an empty dir")
	}
	if store.CellCount("goy") != 0 {
		t.Error("cell count should be zero for unloaded mode")
	}
}

func TestCollection_RawBytes(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "goy_hex_res7.json", sampleGeoJSON)

	store, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	data, ok := store.Collection("goy", 7)
	if !ok {
		t.Fatal("expected goy res7 collection")
	}
	if string(data) != sampleGeoJSON {
		t.Error("Collection should return the raw file bytes unmodified")
	}
}
