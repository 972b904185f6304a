package settings

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// ErrNotConfigured is returned while the dealership has no settings stored yet.
var ErrNotConfigured = errors.New("settings not configured")

// ErrInvalid wraps validation failures of a settings update.
var ErrInvalid = errors.New("invalid settings")

// OpeningHours is one day of the dealership's schedule in 24h HH:MM form.
// Closed days leave Open and Close empty.
type OpeningHours struct {
	Day   string `json:"day" yaml:"day"`
	Open  string `json:"open" yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

// Settings is the dealership's public site configuration.
type Settings struct {
	Name      string            `json:"name" yaml:"name"`
	Tagline   string            `json:"tagline" yaml:"tagline"`
	Email     string            `json:"email" yaml:"email"`
	Phone     string            `json:"phone" yaml:"phone"`
	Address   string            `json:"address" yaml:"address"`
	Hours     []OpeningHours    `json:"hours" yaml:"hours"`
	Social    map[string]string `json:"social" yaml:"social"`
	Currency  string            `json:"currency" yaml:"currency"`
	UpdatedAt time.Time         `json:"updated_at" yaml:"-"`
}

var weekdays = map[string]struct{}{
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
}

// Normalize trims fields and fills defaults in place.
func (s *Settings) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Tagline = strings.TrimSpace(s.Tagline)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Phone = strings.TrimSpace(s.Phone)
	s.Address = strings.TrimSpace(s.Address)
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if s.Currency == "" {
		s.Currency = "USD"
	}
	for i := range s.Hours {
		s.Hours[i].Day = strings.ToLower(strings.TrimSpace(s.Hours[i].Day))
	}
	if s.Hours == nil {
		s.Hours = []OpeningHours{}
	}
	if s.Social == nil {
		s.Social = map[string]string{}
	}
}

// Validate reports the first problem with s, wrapped in ErrInvalid.
func (s Settings) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if s.Email != "" {
		if _, err := mail.ParseAddress(s.Email); err != nil {
			return fmt.Errorf("%w: email is not valid", ErrInvalid)
		}
	}
	if len(s.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalid)
	}
	seen := map[string]struct{}{}
	for _, h := range s.Hours {
		if _, ok := weekdays[h.Day]; !ok {
			return fmt.Errorf("%w: unknown day %q", ErrInvalid, h.Day)
		}
		if _, dup := seen[h.Day]; dup {
			return fmt.Errorf("%w: %s listed twice", ErrInvalid, h.Day)
		}
		seen[h.Day] = struct{}{}
		if h.Open == "" && h.Close == "" {
			continue
		}
		open, err := time.Parse("15:04", h.Open)
		if err != nil {
			return fmt.Errorf("%w: %s open time must be HH:MM", ErrInvalid, h.Day)
		}
		closing, err := time.Parse("15:04", h.Close)
		if err != nil {
			return fmt.Errorf("%w: %s close time must be HH:MM", ErrInvalid, h.Day)
		}
		if !closing.After(open) {
			return fmt.Errorf("%w: %s closes before it opens", ErrInvalid, h.Day)
		}
	}
	return nil
}
