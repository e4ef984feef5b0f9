package skill

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

type Skill struct {
	ID             uuid.UUID
	Name           string
	NormalizedName string
	CreatedAt      time.Time
}

type UserSkill struct {
	UserID    uuid.UUID
	SkillID   uuid.UUID
	SkillName string
	Level     *int16
	CreatedAt time.Time
}

// NormalizeName canonicalizes a skill name for deduplication: lower-cased
// with punctuation stripped, keeping '+' and '#' so names like "C++" and
// "C#" stay distinct from "C".
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
