// Package hexgrid serves the precomputed hexagonal grid reference
// data. Cells are generated offline and loaded read-only at boot; this
// package never mutates them.
package hexgrid

// Cell is one hexagon of the grid for a given mode: a stable H3 index,
// a density score in [0,100], and the named sub-layer counts that
// contribute to it.
type Cell struct {
	HexID       string           `json:"hex_id"`
	Score       float64          `json:"score"`
	NearestCity string           `json:"nearest_city,omitempty"`
	Layers      map[string]int64 `json:"layers"`
}

// ModeConfig describes how one visualization mode's data files are
// named and which GeoJSON property carries its score.
type ModeConfig struct {
	FilePrefix    string
	ScoreProperty string
	Weights       map[string]float64
}

// Modes maps the two mode literals to their data layout. The weight
// tables mirror the filter definitions the grid was generated from;
// zero-weight display-only overlays are omitted.
var Modes = map[string]ModeConfig{
	"jewish": {
		FilePrefix:    "hex_res",
		ScoreProperty: "cdi",
		Weights: map[string]float64{
			"synagogues":             2.5,
			"chabad":                 2.0,
			"mikvahs":                2.0,
			"day_schools":            1.8,
			"hillel":                 1.5,
			"hebrew_schools":         1.5,
			"kosher_restaurants":     1.3,
			"kosher_delis":           1.2,
			"kosher_bakeries":        1.0,
			"judaica":                1.0,
			"jccs":                   1.2,
			"federations":            1.0,
			"jewish_family_services": 1.0,
			"jewish_museums":         0.8,
		},
	},
	"goy": {
		FilePrefix:    "goy_hex_res",
		ScoreProperty: "gpi",
		Weights: map[string]float64{
			"mcdonalds":         1.3,
			"chick_fil_a":       1.2,
			"cracker_barrel":    1.0,
			"waffle_house":      1.2,
			"applebees":         1.0,
			"olive_garden":      1.0,
			"golden_corral":     1.0,
			"hooters":           0.8,
			"walmart":           1.5,
			"costco":            1.2,
			"bass_pro":          1.0,
			"dollar_general":    1.3,
			"tractor_supply":    1.0,
			"churches":          2.5,
			"megachurches":      2.0,
			"catholic_churches": 1.5,
			"gun_ranges":        1.5,
			"nascar":            1.0,
			"golf_courses":      0.8,
			"bowling_alleys":    0.8,
			"tanning_salons":    1.0,
			"crossfit":          0.8,
		},
	},
}

// Resolutions the grid is precomputed at.
var Resolutions = []int{7, 8}

// Score computes a cell's density score from its layer counts: the
// weighted sum of count x weight over the mode's weight table. Layers
// without a weight contribute nothing.
func Score(layers map[string]int64, mode string) float64 {
	cfg, ok := Modes[mode]
	if !ok {
		return 0
	}

	var score float64
	for key, count := range layers {
		score += float64(count) * cfg.Weights[key]
	}
	return score
}
