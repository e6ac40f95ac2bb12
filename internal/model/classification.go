package model

import "fmt"

// Classification is the forensic verdict chosen by the user.
// It is an input: nothing in forensia decides it.
type Classification string

const (
	ClassificationAuthentic Classification = "Authentic / Human"
	ClassificationSynthetic Classification = "Synthetic / Generated"
	ClassificationAltered   Classification = "Altered / Edited"
)

// DefaultClassification is selected when a session starts
const DefaultClassification = ClassificationAuthentic

// Classifications returns the selectable verdicts in declaration order
func Classifications() []Classification {
	return []Classification{
		ClassificationAuthentic,
		ClassificationSynthetic,
		ClassificationAltered,
	}
}

// ParseClassification accepts either the full label ("Synthetic / Generated")
// or the short key ("synthetic")
func ParseClassification(s string) (Classification, error) {
	switch s {
	case string(ClassificationAuthentic), "authentic", "human":
		return ClassificationAuthentic, nil
	case string(ClassificationSynthetic), "synthetic", "generated":
		return ClassificationSynthetic, nil
	case string(ClassificationAltered), "altered", "edited":
		return ClassificationAltered, nil
	}
	return "", fmt.Errorf("unknown classification %q (expected authentic, synthetic or altered)", s)
}
