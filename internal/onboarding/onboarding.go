// Package onboarding scores the four-step profile wizard into loyalty points.
package onboarding

import (
	"fmt"
	"regexp"
	"strings"
)

// Per-field point values of the wizard.
const (
	identityFieldPoints = 25
	identityFullBonus   = 50
	referralBonus       = 100

	playStyleFieldPoints = 15
	playStyleFullBonus   = 25

	profilePhotoPoints = 50
	mediaConsentPoints = 10

	usernameMinLen = 3
	usernameMaxLen = 16
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Profile carries everything the wizard collects across its four steps.
type Profile struct {
	// Step 1: account identity (validated, not scored)
	Username string `json:"username"`
	Nickname string `json:"nickname"`

	// Step 2: personal data
	FullName     string `json:"full_name,omitempty"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	Gender       string `json:"gender,omitempty"`
	City         string `json:"city,omitempty"`
	Occupation   string `json:"occupation,omitempty"`
	ShirtSize    string `json:"shirt_size,omitempty"`
	ReferralCode string `json:"referral_code,omitempty"`

	// Step 3: play style
	PlayGoals     []string `json:"play_goals,omitempty"`
	PlayLevel     string   `json:"play_level,omitempty"`
	PlayFrequency string   `json:"play_frequency,omitempty"`
	OtherHobbies  []string `json:"other_hobbies,omitempty"`

	// Step 4: photo and consent
	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
	MediaConsent    bool   `json:"media_consent,omitempty"`
}

// Breakdown reports points earned per wizard step.
type Breakdown struct {
	PersonalData int64 `json:"personal_data"`
	PlayStyle    int64 `json:"play_style"`
	PhotoConsent int64 `json:"photo_consent"`
	Total        int64 `json:"total"`
}

// ValidateIdentity checks the step-1 required fields: username must be 3-16
// characters of letters, digits and underscore, nickname must be present.
func ValidateIdentity(username, nickname string) error {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return fmt.Errorf("username must be %d-%d characters", usernameMinLen, usernameMaxLen)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits and underscore")
	}
	if strings.TrimSpace(nickname) == "" {
		return fmt.Errorf("nickname is required")
	}
	return nil
}

// Score computes the point award for a completed wizard. Scoring is purely
// additive: per filled field, a bonus per fully completed step, and a bonus
// for supplying a referral code.
func Score(p *Profile) Breakdown {
	var b Breakdown

	personalFields := []bool{
		p.FullName != "",
		p.DateOfBirth != "",
		p.Gender != "",
		p.City != "",
		p.Occupation != "",
		p.ShirtSize != "",
	}
	filled := countFilled(personalFields)
	b.PersonalData = int64(filled * identityFieldPoints)
	if filled == len(personalFields) {
		b.PersonalData += identityFullBonus
	}
	if p.ReferralCode != "" {
		b.PersonalData += referralBonus
	}

	playFields := []bool{
		len(p.PlayGoals) > 0,
		p.PlayLevel != "",
		p.PlayFrequency != "",
		len(p.OtherHobbies) > 0,
	}
	filled = countFilled(playFields)
	b.PlayStyle = int64(filled * playStyleFieldPoints)
	if filled == len(playFields) {
		b.PlayStyle += playStyleFullBonus
	}

	if p.ProfilePhotoURL != "" {
		b.PhotoConsent += profilePhotoPoints
	}
	if p.MediaConsent {
		b.PhotoConsent += mediaConsentPoints
	}

	b.Total = b.PersonalData + b.PlayStyle + b.PhotoConsent
	return b
}

func countFilled(fields []bool) int {
	n := 0
	for _, filled := range fields {
		if filled {
			n++
		}
	}
	return n
}
