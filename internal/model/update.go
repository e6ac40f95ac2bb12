package model

import (
	"fmt"
	"math"
	"strconv"
)

// FeatureUpdate replaces exactly one field of a Features value.
// The set of implementations is closed: one type per field.
type FeatureUpdate interface {
	Field() FeatureField
	apply(Features) Features
}

type (
	SetPauseEntropy         float64
	SetPitchJitter          float64
	SetShimmer              float64
	SetSilenceNoiseVariance float64
	SetProsodyDrift         float64
	SetLanguage             Language
)

func (SetPauseEntropy) Field() FeatureField         { return FieldPauseEntropy }
func (SetPitchJitter) Field() FeatureField          { return FieldPitchJitter }
func (SetShimmer) Field() FeatureField              { return FieldShimmer }
func (SetSilenceNoiseVariance) Field() FeatureField { return FieldSilenceNoiseVariance }
func (SetProsodyDrift) Field() FeatureField         { return FieldProsodyDrift }
func (SetLanguage) Field() FeatureField             { return FieldLanguage }

func (u SetPauseEntropy) apply(f Features) Features {
	f.PauseEntropy = float64(u)
	return f
}

func (u SetPitchJitter) apply(f Features) Features {
	f.PitchJitter = float64(u)
	return f
}

func (u SetShimmer) apply(f Features) Features {
	f.Shimmer = float64(u)
	return f
}

func (u SetSilenceNoiseVariance) apply(f Features) Features {
	f.SilenceNoiseVariance = float64(u)
	return f
}

func (u SetProsodyDrift) apply(f Features) Features {
	f.ProsodyDrift = float64(u)
	return f
}

func (u SetLanguage) apply(f Features) Features {
	f.Language = Language(u)
	return f
}

// Apply returns a copy of f with the update applied; f itself is not modified
func (f Features) Apply(u FeatureUpdate) Features {
	return u.apply(f)
}

// ParseFeatureUpdate builds an update from a field name and its textual value.
// Used where values arrive untyped (form posts, JSON bodies, CLI flags).
// Numeric values must be finite but are not range checked.
func ParseFeatureUpdate(field, value string) (FeatureUpdate, error) {
	switch FeatureField(field) {
	case FieldPauseEntropy, FieldPitchJitter, FieldShimmer, FieldSilenceNoiseVariance, FieldProsodyDrift, FieldLanguage:
	default:
		return nil, fmt.Errorf("unknown feature field %q", field)
	}

	if FeatureField(field) == FieldLanguage {
		lang, err := ParseLanguage(value)
		if err != nil {
			return nil, err
		}
		return SetLanguage(lang), nil
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q for %s: %w", value, field, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid value %q for %s: not a finite number", value, field)
	}

	switch FeatureField(field) {
	case FieldPauseEntropy:
		return SetPauseEntropy(v), nil
	case FieldPitchJitter:
		return SetPitchJitter(v), nil
	case FieldShimmer:
		return SetShimmer(v), nil
	case FieldSilenceNoiseVariance:
		return SetSilenceNoiseVariance(v), nil
	default: // FieldProsodyDrift
		return SetProsodyDrift(v), nil
	}
}
