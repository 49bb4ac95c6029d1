// Package commands implements the hydroeval CLI commands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hydroeval/hydroeval/internal/analytics/batch"
)

// ErrEmptyManifest is returned for a manifest without series.
var ErrEmptyManifest = errors.New("manifest contains no series")

// manifest is the wrapped manifest form: {series: [...]}.
type manifest struct {
	Series []batch.Input `json:"series"`
}

// yamlSeries decodes YAML nulls as missing values.
type yamlSeries struct {
	Name      string     `yaml:"name"`
	Predicted []*float64 `yaml:"predicted"`
	Target    []*float64 `yaml:"target"`
}

type yamlManifest struct {
	Series []yamlSeries `yaml:"series"`
}

// LoadManifest reads a list of series from a JSON (.json) or YAML file.
// Both a bare list and a {series: [...]} mapping are accepted.
func LoadManifest(path string) ([]batch.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var inputs []batch.Input
	if strings.EqualFold(filepath.Ext(path), ".json") {
		inputs, err = parseJSONManifest(data)
	} else {
		inputs, err = parseYAMLManifest(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if len(inputs) == 0 {
		return nil, ErrEmptyManifest
	}
	return inputs, nil
}

func parseJSONManifest(data []byte) ([]batch.Input, error) {
	var list []batch.Input
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped manifest
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Series, nil
}

func parseYAMLManifest(data []byte) ([]batch.Input, error) {
	var list []yamlSeries
	if err := yaml.Unmarshal(data, &list); err != nil {
		var wrapped yamlManifest
		if err := yaml.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		list = wrapped.Series
	}

	inputs := make([]batch.Input, len(list))
	for i, s := range list {
		inputs[i] = batch.Input{
			Name:      s.Name,
			Predicted: orNaN(s.Predicted),
			Target:    orNaN(s.Target),
		}
	}
	return inputs, nil
}

func orNaN(values []*float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	return out
}
