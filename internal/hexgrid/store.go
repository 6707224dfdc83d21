package hexgrid

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// feature is the slice of a GeoJSON feature this package cares about.
// Geometry is kept opaque; only properties are interpreted.
type feature struct {
	Properties map[string]interface{} `json:"properties"`
}

type featureCollection struct {
	Features []feature `json:"features"`
}

// Store holds the parsed grid per (mode, resolution) plus the raw file
// bytes so collections can be served without re-encoding.
type Store struct {
	raw   map[string][]byte
	cells map[string]map[string]*Cell
}

func key(mode string, resolution int) string {
	return fmt.Sprintf("%s:%d", mode, resolution)
}

// Load reads every precomputed grid file found under dataDir. Missing
// files are skipped with a log line; a mode/resolution combination that
// was never generated is simply absent.
func Load(dataDir string) (*Store, error) {
	s := &Store{
		raw:   make(map[string][]byte),
		cells: make(map[string]map[string]*Cell),
	}

	for mode, cfg := range Modes {
		for _, res := range Resolutions {
			path := filepath.Join(dataDir, fmt.Sprintf("%s%d.json", cfg.FilePrefix, res))
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					log.Printf("hexgrid: no data file for mode=%s res=%d (%s), skipping", mode, res, path)
					continue
				}
				return nil, fmt.Errorf("hexgrid: reading %s: %w", path, err)
			}

			index, err := parseCells(data, mode, cfg)
			if err != nil {
				return nil, fmt.Errorf("hexgrid: parsing %s: %w", path, err)
			}

			k := key(mode, res)
			s.raw[k] = data
			s.cells[k] = index
			log.Printf("hexgrid: loaded %d cells for mode=%s res=%d", len(index), mode, res)
		}
	}

	return s, nil
}

func parseCells(data []byte, mode string, cfg ModeConfig) (map[string]*Cell, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}

	index := make(map[string]*Cell, len(fc.Features))
	for _, f := range fc.Features {
		hexID, ok := f.Properties["h3"].(string)
		if !ok || hexID == "" {
			continue
		}

		cell := &Cell{
			HexID:  hexID,
			Layers: make(map[string]int64),
		}

		if score, ok := f.Properties[cfg.ScoreProperty].(float64); ok {
			cell.Score = score
		}
		if city, ok := f.Properties["nearest_city"].(string); ok {
			cell.NearestCity = city
		}

		for prop, val := range f.Properties {
			layerID, found := strings.CutPrefix(prop, "layer_")
			if !found {
				continue
			}
			if count, ok := val.(float64); ok {
				cell.Layers[layerID] = int64(count)
			}
		}

		// Generated files carry a score; recompute only when absent.
		if cell.Score == 0 && len(cell.Layers) > 0 {
			cell.Score = Score(cell.Layers, mode)
		}

		index[cell.HexID] = cell
	}

	return index, nil
}

// Collection returns the raw GeoJSON bytes for a mode and resolution,
// or false when that combination was never loaded.
func (s *Store) Collection(mode string, resolution int) ([]byte, bool) {
	data, ok := s.raw[key(mode, resolution)]
	return data, ok
}

// Cell looks up a single cell by hex index at the requested resolution.
func (s *Store) Cell(mode string, resolution int, hexID string) (*Cell, bool) {
	index, ok := s.cells[key(mode, resolution)]
	if !ok {
		return nil, false
	}
	cell, ok := index[hexID]
	return cell, ok
}

// CellCount returns how many cells are loaded for a mode across all
// resolutions.
func (s *Store) CellCount(mode string) int {
	total := 0
	for _, res := range Resolutions {
		total += len(s.cells[key(mode, res)])
	}
	return total
}
