package usecase

import (
	"fmt"

	"github.com/google/uuid"
)

func RecommendationsSnapshotKey(userID uuid.UUID, limit int) string {
	return fmt.Sprintf("recs:snapshot:%s:%d", userID, limit)
}

func RecommendationsSnapshotPattern(userID uuid.UUID) string {
	return fmt.Sprintf("recs:snapshot:%s:*", userID)
}

func RefreshLockKey(userID uuid.UUID) string {
	return "recs:lock:" + userID.String()
}
