package types

import "github.com/wikijury/wikijury/internal/scoring"

// UploadConfig is the JSON side-channel accompanying a table upload: the
// jury's weight configuration and optional bonus settings applied to the
// parsed dataset.
type UploadConfig struct {
	Weights scoring.Weights     `json:"weights"`
	Bonus   scoring.BonusConfig `json:"bonus_config"`
}
