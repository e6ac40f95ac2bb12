package cli

import (
	"github.com/spf13/pflag"

	"github.com/ppiankov/forensia/internal/model"
)

// featureFlags binds one flag per acoustic feature plus the classification
type featureFlags struct {
	features       model.Features
	language       string
	classification string
}

func (ff *featureFlags) register(fs *pflag.FlagSet, withClassification bool) {
	d := model.DefaultFeatures()
	fs.Float64Var(&ff.features.PauseEntropy, "pause-entropy", d.PauseEntropy, "pause entropy")
	fs.Float64Var(&ff.features.PitchJitter, "pitch-jitter", d.PitchJitter, "pitch jitter (%)")
	fs.Float64Var(&ff.features.Shimmer, "shimmer", d.Shimmer, "amplitude shimmer (%)")
	fs.Float64Var(&ff.features.SilenceNoiseVariance, "silence-noise-variance", d.SilenceNoiseVariance, "silence noise variance")
	fs.Float64Var(&ff.features.ProsodyDrift, "prosody-drift", d.ProsodyDrift, "prosody drift score")
	fs.StringVar(&ff.language, "language", string(d.Language), "recording language")
	if withClassification {
		fs.StringVar(&ff.classification, "classification", "authentic", "final classification (authentic, synthetic, altered)")
	}
}

// resolve validates the textual flags and returns the inputs
func (ff *featureFlags) resolve() (model.Features, model.Classification, error) {
	f := ff.features
	lang, err := model.ParseLanguage(ff.language)
	if err != nil {
		return model.Features{}, "", err
	}
	f.Language = lang

	c := model.DefaultClassification
	if ff.classification != "" {
		c, err = model.ParseClassification(ff.classification)
		if err != nil {
			return model.Features{}, "", err
		}
	}
	return f, c, nil
}
