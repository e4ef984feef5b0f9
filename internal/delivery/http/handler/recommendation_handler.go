package handler

import (
	"errors"
	"strconv"

	"job-finder/internal/delivery/http/dto"
	"job-finder/internal/delivery/http/middleware"
	"job-finder/internal/pkg/response"
	"job-finder/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	uc        usecase.RecommendationUsecase
	scheduler usecase.RefreshScheduler
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase, scheduler usecase.RefreshScheduler) *RecommendationHandler {
	return &RecommendationHandler{uc: uc, scheduler: scheduler}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/recommendations")
	grp.Get("/", h.GetRecommendations)
	grp.Post("/refresh", h.RefreshRecommendations)
}

// GetRecommendations serves the cached ranking only. A cold cache answers
// with an empty list and warms up in the background; clients poll.
func (h *RecommendationHandler) GetRecommendations(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	limit := parseQueryInt(c, "limit", 0)

	items, err := h.uc.GetRecommendations(c.Context(), userID, limit)
	if err != nil {
		return mapRecommendationUsecaseError(err)
	}

	out := make([]dto.RecommendationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.RecommendationResponse{
			VacancyID: it.VacancyID,
			Title:     it.Title,
			Company:   it.Company,
			City:      it.City,
			Score:     it.Score,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *RecommendationHandler) RefreshRecommendations(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	limit := parseQueryInt(c, "limit", 0)

	if h.scheduler != nil {
		h.scheduler.Schedule(userID, limit)
	}

	return response.Success(c, fiber.StatusAccepted, response.MessageAccepted, nil)
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func mapRecommendationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrInternal):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
