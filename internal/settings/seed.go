package settings

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSeedFile reads initial settings from a YAML file.
func LoadSeedFile(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("open settings seed: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}

// DecodeSeed parses a YAML settings document. Unknown keys are rejected so
// typos in the seed file surface at startup.
func DecodeSeed(r io.Reader) (Settings, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings seed: %w", err)
	}
	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("parse settings seed: %w", err)
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Default is used when no seed file is configured.
func Default(appName string) Settings {
	s := Settings{
		Name:     appName,
		Currency: "USD",
		Hours: []OpeningHours{
			{Day: "monday", Open: "09:00", Close: "18:00"},
			{Day: "tuesday", Open: "09:00", Close: "18:00"},
			{Day: "wednesday", Open: "09:00", Close: "18:00"},
			{Day: "thursday", Open: "09:00", Close: "18:00"},
			{Day: "friday", Open: "09:00", Close: "18:00"},
			{Day: "saturday", Open: "10:00", Close: "16:00"},
			{Day: "sunday"},
		},
	}
	s.Normalize()
	return s
}
