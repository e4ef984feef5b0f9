package vacancy

import (
	"time"

	"github.com/google/uuid"
)

type Vacancy struct {
	ID               uuid.UUID
	Title            string
	Description      string
	Requirements     string
	Responsibilities string
	Company          string
	City             string
	URL              string
	Source           string
	PublishedAt      *time.Time
	CreatedAt        time.Time
}

// SkillTag is one (skill, weight) pair on a vacancy. A nil weight means the
// importance was never set and defaults to 1.0 at scoring time.
type SkillTag struct {
	VacancyID uuid.UUID
	SkillID   uuid.UUID
	Weight    *float64
}
