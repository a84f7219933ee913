// Package profile loads the user's onboarding profile and formats it as
// prompt context.
package profile

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/vibediag/internal/validation"
)

// Profile is the information collected at onboarding.
type Profile struct {
	Email          string `yaml:"email" json:"email,omitempty" validate:"omitempty,email"`
	Name           string `yaml:"name" json:"name" validate:"required"`
	Age            int    `yaml:"age" json:"age,omitempty" validate:"gte=0,lte=130"`
	Gender         string `yaml:"gender" json:"gender,omitempty" validate:"omitempty,oneof=Male Female Non-binary Other"`
	Height         string `yaml:"height" json:"height,omitempty"`
	Weight         string `yaml:"weight" json:"weight,omitempty"`
	SleepHours     string `yaml:"sleep_hours" json:"sleep_hours,omitempty"`
	ActivityLevel  string `yaml:"activity_level" json:"activity_level,omitempty" validate:"omitempty,activity_level"`
	DietaryPref    string `yaml:"dietary_pref" json:"dietary_pref,omitempty" validate:"omitempty,oneof=None Vegetarian Vegan Keto Paleo Gluten-Free"`
	MedicalHistory string `yaml:"medical_history" json:"medical_history,omitempty"`
	Goals          string `yaml:"goals" json:"goals,omitempty"`
}

// File holds a loaded profile with its source path and hash.
type File struct {
	FilePath string
	Profile  Profile
	Hash     string
}

// Load reads a profile file, validates it and computes its SHA-256 hash.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile.Load: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile.Load %s: %w", path, err)
	}
	if err := validation.Struct(p); err != nil {
		return nil, fmt.Errorf("profile.Load %s: %w", path, err)
	}
	h := sha256.Sum256(data)
	return &File{
		FilePath: path,
		Profile:  p,
		Hash:     fmt.Sprintf("sha256:%x", h),
	}, nil
}

// FormatForPrompt renders the non-empty profile fields as "Key: value" lines.
// The email address is never included.
func FormatForPrompt(p *Profile) string {
	var b strings.Builder
	field := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", k, v)
		}
	}
	field("Name", p.Name)
	if p.Age > 0 {
		field("Age", fmt.Sprintf("%d", p.Age))
	}
	field("Gender", p.Gender)
	field("Height", p.Height)
	field("Weight", p.Weight)
	field("Usual sleep", p.SleepHours)
	field("Activity level", p.ActivityLevel)
	field("Dietary preference", p.DietaryPref)
	field("Medical history", p.MedicalHistory)
	field("Goals", p.Goals)
	return b.String()
}
