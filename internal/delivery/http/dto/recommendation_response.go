package dto

import "github.com/google/uuid"

type RecommendationResponse struct {
	VacancyID uuid.UUID `json:"vacancy_id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	City      string    `json:"city"`
	Score     float64   `json:"score"`
}
