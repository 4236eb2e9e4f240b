package onboarding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentity(t *testing.T) {
	tests := []struct {
		name     string
		username string
		nickname string
		wantErr  bool
	}{
		{name: "valid username and nickname", username: "smash_king88", nickname: "Budi", wantErr: false},
		{name: "minimum length username", username: "abc", nickname: "B", wantErr: false},
		{name: "maximum length username", username: strings.Repeat("a", 16), nickname: "B", wantErr: false},
		{name: "too short", username: "ab", nickname: "Budi", wantErr: true},
		{name: "too long", username: strings.Repeat("a", 17), nickname: "Budi", wantErr: true},
		{name: "illegal characters", username: "bad name!", nickname: "Budi", wantErr: true},
		{name: "dash not allowed", username: "smash-king", nickname: "Budi", wantErr: true},
		{name: "empty nickname", username: "smash_king", nickname: "", wantErr: true},
		{name: "whitespace nickname", username: "smash_king", nickname: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentity(tt.username, tt.nickname)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScorePersonalData(t *testing.T) {
	t.Run("per field award", func(t *testing.T) {
		b := Score(&Profile{FullName: "Budi Santoso", City: "Jakarta Selatan"})
		assert.Equal(t, int64(50), b.PersonalData)
	})

	t.Run("full completion bonus", func(t *testing.T) {
		b := Score(&Profile{
			FullName:    "Budi Santoso",
			DateOfBirth: "1995-04-12",
			Gender:      "male",
			City:        "Jakarta Selatan",
			Occupation:  "karyawan",
			ShirtSize:   "L",
		})
		// 6 fields x 25 + 50 completion bonus
		assert.Equal(t, int64(200), b.PersonalData)
	})

	t.Run("referral code bonus", func(t *testing.T) {
		b := Score(&Profile{ReferralCode: "TI-REF-123"})
		assert.Equal(t, int64(100), b.PersonalData)
	})
}

func TestScorePlayStyle(t *testing.T) {
	t.Run("partial", func(t *testing.T) {
		b := Score(&Profile{PlayLevel: "Menengah", PlayFrequency: "2-3x"})
		assert.Equal(t, int64(30), b.PlayStyle)
	})

	t.Run("complete", func(t *testing.T) {
		b := Score(&Profile{
			PlayGoals:     []string{"Sparring rutin"},
			PlayLevel:     "Menengah",
			PlayFrequency: "2-3x",
			OtherHobbies:  []string{"Gym"},
		})
		// 4 fields x 15 + 25 completion bonus
		assert.Equal(t, int64(85), b.PlayStyle)
	})
}

func TestScorePhotoConsent(t *testing.T) {
	b := Score(&Profile{ProfilePhotoURL: "https://cdn.tisport.id/p/1.jpg", MediaConsent: true})
	assert.Equal(t, int64(60), b.PhotoConsent)

	b = Score(&Profile{MediaConsent: true})
	assert.Equal(t, int64(10), b.PhotoConsent)
}

func TestScoreTotal(t *testing.T) {
	p := &Profile{
		Username:        "smash_king88",
		Nickname:        "Budi",
		FullName:        "Budi Santoso",
		DateOfBirth:     "1995-04-12",
		Gender:          "male",
		City:            "Jakarta Selatan",
		Occupation:      "karyawan",
		ShirtSize:       "L",
		ReferralCode:    "TI-REF-123",
		PlayGoals:       []string{"Kompetitif"},
		PlayLevel:       "Lanjut",
		PlayFrequency:   "4x+",
		OtherHobbies:    []string{"Ngopi", "Gym"},
		ProfilePhotoURL: "https://cdn.tisport.id/p/1.jpg",
		MediaConsent:    true,
	}
	require.NoError(t, ValidateIdentity(p.Username, p.Nickname))

	b := Score(p)
	assert.Equal(t, int64(300), b.PersonalData)
	assert.Equal(t, int64(85), b.PlayStyle)
	assert.Equal(t, int64(60), b.PhotoConsent)
	assert.Equal(t, int64(445), b.Total)
}

func TestScoreEmptyProfile(t *testing.T) {
	b := Score(&Profile{})
	assert.Equal(t, int64(0), b.Total)
}
