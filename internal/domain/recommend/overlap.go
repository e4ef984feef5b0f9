package recommend

import "github.com/google/uuid"

type SkillWeight struct {
	SkillID uuid.UUID
	Weight  *float64
}

// OverlapScore returns the weighted share of a vacancy's tagged skills that
// the user also has. A vacancy with no tagged skills, or a user with no
// skills, scores exactly 0.0 so downstream blending stays defined.
func OverlapScore(userSkillIDs map[uuid.UUID]struct{}, vacancySkills []SkillWeight) float64 {
	if len(userSkillIDs) == 0 || len(vacancySkills) == 0 {
		return 0.0
	}

	var total float64
	var matched float64
	for _, vs := range vacancySkills {
		w := 1.0
		if vs.Weight != nil {
			w = *vs.Weight
		}
		total += w
		if _, ok := userSkillIDs[vs.SkillID]; ok {
			matched += w
		}
	}

	if total <= 0 {
		return 0.0
	}
	return matched / total
}
