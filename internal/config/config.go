// Package config loads the two-layer configuration shared by cmd/wordvec's
// subcommands: a TOML file provides defaults, and cobra flags explicitly
// set on the command line override them, mirroring cmd/sift's own
// ".sift.toml"-then-flags precedence.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Train holds every option recognized by the training subcommand, named
// after the external option table.
type Train struct {
	TrainPath  string  `toml:"train"`
	OutputPath string  `toml:"output"`
	Size       int     `toml:"size"`
	Window     int     `toml:"window"`
	Sample     float64 `toml:"sample"`
	HS         bool    `toml:"hs"`
	Negative   int     `toml:"negative"`
	Threads    int     `toml:"threads"`
	Iter       int     `toml:"iter"`
	MinCount   int     `toml:"min-count"`
	Alpha      float64 `toml:"alpha"`
	Classes    int     `toml:"classes"`
	Debug      int     `toml:"debug"`
	Binary     bool    `toml:"binary"`
	SaveVocab  string  `toml:"save-vocab"`
	ReadVocab  string  `toml:"read-vocab"`
	CBOW       bool    `toml:"cbow"`
}

// DefaultTrain returns the training defaults. Alpha defaults to
// 0.025 for skip-gram; callers that select CBOW without an explicit
// --alpha should use 0.05 instead (see cmd/wordvec).
func DefaultTrain() Train {
	return Train{
		Size:     100,
		Window:   5,
		Sample:   1e-3,
		Negative: 5,
		Threads:  12,
		Iter:     5,
		MinCount: 5,
		Alpha:    0.025,
	}
}

// Phrase holds the options recognized by the phrase-detection subcommand.
type Phrase struct {
	TrainPath  string  `toml:"train"`
	OutputPath string  `toml:"output"`
	MinCount   int     `toml:"min-count"`
	Threshold  float64 `toml:"threshold"`
	Debug      int     `toml:"debug"`
}

// DefaultPhrase returns the phrase-detection defaults.
func DefaultPhrase() Phrase {
	return Phrase{
		MinCount:  5,
		Threshold: 100,
	}
}

// LoadTOML reads path (if it exists) and unmarshals it onto dst, which
// must be a pointer to one of Train or Phrase. A missing file is not an
// error — cmd/wordvec simply keeps dst's pre-populated defaults.
func LoadTOML(path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// ValidateTrain checks a Train config for the fatal configuration errors
// called out in the external interface: an unimplemented k-means request,
// a missing corpus path, and a non-positive embedding dimension.
func ValidateTrain(c Train) error {
	if c.TrainPath == "" {
		return fmt.Errorf("config: train path is required")
	}
	if c.Size <= 0 {
		return fmt.Errorf("config: size must be positive")
	}
	if c.Window <= 0 {
		return fmt.Errorf("config: window must be positive")
	}
	if c.Iter <= 0 {
		return fmt.Errorf("config: iter must be positive")
	}
	if c.Classes > 0 {
		return fmt.Errorf("config: classes=%d requests k-means clustering, which is not implemented here (out of scope) — cluster the emitted vectors with an external tool instead", c.Classes)
	}
	if !c.HS && c.Negative <= 0 {
		return fmt.Errorf("config: neither hs nor negative sampling is enabled — no training objective selected")
	}
	return nil
}

// ValidatePhrase checks a Phrase config for fatal configuration errors.
func ValidatePhrase(c Phrase) error {
	if c.TrainPath == "" {
		return fmt.Errorf("config: train path is required")
	}
	return nil
}
