package domain

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Genome is a genome record as stored in the Workspace.
// It is kept opaque so that it can be saved back without losing fields.
type Genome map[string]any

// Feature is the part of a genome feature needed to build a protein FASTA entry.
type Feature struct {
	ID                 string
	Function           string
	ProteinTranslation string
}

// rawFeature keeps null apart from a present string.
type rawFeature struct {
	ID                 *string `mapstructure:"id"`
	Function           *string `mapstructure:"function"`
	ProteinTranslation *string `mapstructure:"protein_translation"`
}

// Features decodes the genome's feature list.
// A feature whose id, function or protein translation is missing or null is an error.
func (g Genome) Features() ([]Feature, error) {
	raw, ok := g["features"]
	if !ok {
		return nil, fmt.Errorf("genome has no features list")
	}
	if raw == nil {
		return nil, fmt.Errorf("genome features list is null")
	}

	var decoded []rawFeature
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &decoded,
		ErrorUnset: true,
		DecodeHook: rejectNumbers,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid genome features: %w", err)
	}

	features := make([]Feature, 0, len(decoded))
	for i, f := range decoded {
		switch {
		case f.ID == nil:
			return nil, fmt.Errorf("invalid genome features: feature %d has a null id", i)
		case f.Function == nil:
			return nil, fmt.Errorf("invalid genome features: feature %d has a null function", i)
		case f.ProteinTranslation == nil:
			return nil, fmt.Errorf("invalid genome features: feature %d has a null protein_translation", i)
		}
		features = append(features, Feature{
			ID:                 *f.ID,
			Function:           *f.Function,
			ProteinTranslation: *f.ProteinTranslation,
		})
	}
	return features, nil
}

// rejectNumbers stops json.Number, which has a string kind, from decoding into string fields.
func rejectNumbers(from, to reflect.Type, data any) (any, error) {
	if from == reflect.TypeOf(json.Number("")) && to.Kind() == reflect.String {
		return nil, fmt.Errorf("expected a string, got number %v", data)
	}
	return data, nil
}
