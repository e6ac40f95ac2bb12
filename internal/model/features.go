package model

import (
	"fmt"
	"math"
)

// Language is the spoken-language context of the analysed clip
type Language string

const (
	LanguageEnglish   Language = "English"
	LanguageHindi     Language = "Hindi"
	LanguageTelugu    Language = "Telugu"
	LanguageTamil     Language = "Tamil"
	LanguageMalayalam Language = "Malayalam"
)

// Languages returns the supported languages in presentation order
func Languages() []Language {
	return []Language{
		LanguageEnglish,
		LanguageHindi,
		LanguageTelugu,
		LanguageTamil,
		LanguageMalayalam,
	}
}

// ParseLanguage validates a language name coming from a form, flag or file
func ParseLanguage(s string) (Language, error) {
	for _, l := range Languages() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q (supported: English, Hindi, Telugu, Tamil, Malayalam)", s)
}

// Features is the set of forensic parameters describing one audio clip.
// Values are supplied by the user; nothing here extracts them from audio.
// PitchJitter and Shimmer are percentages.
type Features struct {
	PauseEntropy         float64  `json:"pauseEntropy" yaml:"pause_entropy"`
	PitchJitter          float64  `json:"pitchJitter" yaml:"pitch_jitter"`
	Shimmer              float64  `json:"shimmer" yaml:"shimmer"`
	SilenceNoiseVariance float64  `json:"silenceNoiseVariance" yaml:"silence_noise_variance"`
	ProsodyDrift         float64  `json:"prosodyDrift" yaml:"prosody_drift"`
	Language             Language `json:"language" yaml:"language"`
}

// DefaultFeatures returns the values a fresh session starts with
func DefaultFeatures() Features {
	return Features{
		PauseEntropy:         1.25,
		PitchJitter:          0.84,
		Shimmer:              1.12,
		SilenceNoiseVariance: 0.0045,
		ProsodyDrift:         2.1,
		Language:             LanguageEnglish,
	}
}

// FeatureField names one of the six fields of Features
type FeatureField string

const (
	FieldPauseEntropy         FeatureField = "pauseEntropy"
	FieldPitchJitter          FeatureField = "pitchJitter"
	FieldShimmer              FeatureField = "shimmer"
	FieldSilenceNoiseVariance FeatureField = "silenceNoiseVariance"
	FieldProsodyDrift         FeatureField = "prosodyDrift"
	FieldLanguage             FeatureField = "language"
)

// Range describes the input widget bounds for a numeric field.
// The bounds are presentational; nothing clamps values to them.
type Range struct {
	Field FeatureField `json:"field"`
	Label string       `json:"label"`
	Min   float64      `json:"min"`
	Max   float64      `json:"max"`
	Step  float64      `json:"step"`
	Unit  string       `json:"unit,omitempty"`
}

// FeatureRanges returns the slider definitions in display order
func FeatureRanges() []Range {
	return []Range{
		{Field: FieldPauseEntropy, Label: "Pause Entropy", Min: 0, Max: 5, Step: 0.01},
		{Field: FieldPitchJitter, Label: "Pitch Jitter", Min: 0, Max: 5, Step: 0.01, Unit: "%"},
		{Field: FieldShimmer, Label: "Amplitude Shimmer", Min: 0, Max: 5, Step: 0.01, Unit: "%"},
		{Field: FieldSilenceNoiseVariance, Label: "Silence Noise Variance", Min: 0, Max: 1, Step: 0.0001},
		{Field: FieldProsodyDrift, Label: "Prosody Drift Score", Min: 0, Max: 10, Step: 0.1},
	}
}

// CheckFinite reports the first numeric field holding NaN or an infinity
func (f Features) CheckFinite() error {
	for _, r := range FeatureRanges() {
		if v := f.Value(r.Field); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not a finite number", r.Field)
		}
	}
	return nil
}

// Value returns the numeric value of a field (zero for the language field)
func (f Features) Value(field FeatureField) float64 {
	switch field {
	case FieldPauseEntropy:
		return f.PauseEntropy
	case FieldPitchJitter:
		return f.PitchJitter
	case FieldShimmer:
		return f.Shimmer
	case FieldSilenceNoiseVariance:
		return f.SilenceNoiseVariance
	case FieldProsodyDrift:
		return f.ProsodyDrift
	}
	return 0
}
