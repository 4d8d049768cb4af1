// Package risk maps score, flags, confidence and age to the final
// LOW/MEDIUM/HIGH label. Rules are evaluated in strict order and the
// first match wins: the numeric score alone can never produce a false
// LOW or HIGH, and missing data alone can never produce HIGH. That
// label is reserved for confirmed danger or confirmed extreme youth.
package risk

import (
	"github.com/tokensentry/tokensentry/internal/confidence"
	"github.com/tokensentry/tokensentry/internal/config"
	"github.com/tokensentry/tokensentry/internal/flags"
)

// Level is the terminal risk classification.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// Input carries everything the determinator inspects.
type Input struct {
	Score            int
	Flags            flags.Set
	Confidence       confidence.Report
	Core             bool
	NewTokenOverride bool
}

// Determine applies the ordered rule list.
func Determine(in Input, cfg config.RiskConfig) Level {
	// 1. Confirmed extreme youth.
	if in.NewTokenOverride {
		return LevelHigh
	}

	// 2. Critical flags veto any score.
	if in.Flags.AnyCritical() {
		return LevelHigh
	}

	// 3. Core assets bottom out at MEDIUM.
	if in.Core {
		if in.Score >= cfg.CoreLowMinScore {
			return LevelLow
		}
		return LevelMedium
	}

	// 4. Missing data alone cannot produce HIGH.
	if in.Confidence.Level == confidence.LevelLow {
		if in.Score >= cfg.LowConfLowMinScore {
			return LevelLow
		}
		return LevelMedium
	}

	// 5. Thin evidence with a middling score stays MEDIUM.
	if in.Confidence.Level == confidence.LevelMedium && in.Score < cfg.MediumConfMaxScore {
		return LevelMedium
	}

	// 6. Plain thresholds.
	switch {
	case in.Score >= cfg.LowMinScore:
		return LevelLow
	case in.Score >= cfg.MediumMinScore:
		return LevelMedium
	default:
		return LevelHigh
	}
}
