package usecase

import (
	"context"
	"log"
	"time"

	"job-finder/internal/domain/recommend"
	"job-finder/internal/repository"

	"github.com/google/uuid"
)

const maxRecommendationLimit = 50

type RecommendationItem struct {
	VacancyID uuid.UUID `json:"vacancy_id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	City      string    `json:"city"`
	Score     float64   `json:"score"`
}

// RefreshScheduler accepts a "refresh recommendations for user X" unit of
// work and runs it without blocking the caller.
type RefreshScheduler interface {
	Schedule(userID uuid.UUID, limit int)
}

type RecommendationUsecase interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]RecommendationItem, error)
	RefreshCache(ctx context.Context, userID uuid.UUID, limit int) error
}

type Recommendation struct {
	cacheRepo  repository.RecommendationCacheRepository
	vacancies  repository.VacancyRepository
	userSkills repository.UserSkillRepository
	profiles   repository.ProfileRepository
	ranker     *recommend.Ranker

	snapshots   SnapshotCache
	snapshotTTL time.Duration

	scheduler    RefreshScheduler
	defaultLimit int
	logger       *log.Logger
}

func NewRecommendationUsecase(
	cacheRepo repository.RecommendationCacheRepository,
	vacancies repository.VacancyRepository,
	userSkills repository.UserSkillRepository,
	profiles repository.ProfileRepository,
	ranker *recommend.Ranker,
	snapshots SnapshotCache,
	snapshotTTL time.Duration,
	defaultLimit int,
	logger *log.Logger,
) *Recommendation {
	if defaultLimit <= 0 {
		defaultLimit = recommend.DefaultLimit
	}
	return &Recommendation{
		cacheRepo:    cacheRepo,
		vacancies:    vacancies,
		userSkills:   userSkills,
		profiles:     profiles,
		ranker:       ranker,
		snapshots:    snapshots,
		snapshotTTL:  snapshotTTL,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// SetScheduler wires the background refresh trigger after construction; the
// trigger itself calls back into RefreshCache.
func (u *Recommendation) SetScheduler(s RefreshScheduler) {
	u.scheduler = s
}

// GetRecommendations serves the latency-critical read path. It only ever
// reads cached rankings; a cold cache returns an empty list and schedules a
// background refresh, it never scores inline.
func (u *Recommendation) GetRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]RecommendationItem, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	limit = u.normalizeLimit(limit)

	if u.snapshots != nil {
		var snap []RecommendationItem
		hit, err := u.snapshots.GetJSON(ctx, RecommendationsSnapshotKey(userID, limit), &snap)
		if err == nil && hit {
			return snap, nil
		}
	}

	rows, err := u.cacheRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, ErrInternal
	}

	if len(rows) == 0 {
		if u.scheduler != nil {
			u.scheduler.Schedule(userID, limit)
		}
		return []RecommendationItem{}, nil
	}

	out := make([]RecommendationItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, RecommendationItem{
			VacancyID: r.VacancyID,
			Title:     r.Title,
			Company:   r.Company,
			City:      r.City,
			Score:     r.Score,
		})
	}

	if u.snapshots != nil {
		_ = u.snapshots.SetJSON(ctx, RecommendationsSnapshotKey(userID, limit), out, u.snapshotTTL)
	}

	return out, nil
}

// RefreshCache recomputes the user's ranking and atomically replaces the
// cached generation. It is a plain synchronous function; fire-and-forget
// semantics (and error swallowing) belong to the trigger that calls it.
func (u *Recommendation) RefreshCache(ctx context.Context, userID uuid.UUID, limit int) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	limit = u.normalizeLimit(limit)

	us, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	profile, err := u.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	candidates, err := u.loadCandidates(ctx)
	if err != nil {
		return err
	}

	signals := recommend.UserSignals{
		SkillIDs:   make(map[uuid.UUID]struct{}, len(us)),
		SkillNames: make([]string, 0, len(us)),
		Keywords:   profile.Keywords,
		About:      profile.About,
	}
	for _, s := range us {
		signals.SkillIDs[s.SkillID] = struct{}{}
		signals.SkillNames = append(signals.SkillNames, s.SkillName)
	}

	scored := u.ranker.Rank(ctx, signals, candidates, limit)

	entries := make([]repository.CacheEntry, 0, len(scored))
	for _, s := range scored {
		entries = append(entries, repository.CacheEntry{
			UserID:    userID,
			VacancyID: s.VacancyID,
			Score:     s.Score,
		})
	}

	if err := u.cacheRepo.ReplaceForUser(ctx, userID, entries); err != nil {
		return err
	}

	if u.snapshots != nil {
		_ = u.snapshots.DeleteByPattern(ctx, RecommendationsSnapshotPattern(userID))
	}

	if u.logger != nil {
		u.logger.Printf("[Recommendation] cache refreshed user=%s entries=%d", userID, len(entries))
	}
	return nil
}

func (u *Recommendation) loadCandidates(ctx context.Context) ([]recommend.Candidate, error) {
	vacancies, err := u.vacancies.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(vacancies) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(vacancies))
	for _, v := range vacancies {
		if v.ID == uuid.Nil {
			continue
		}
		ids = append(ids, v.ID)
	}

	tagsByVacancy, err := u.vacancies.FindSkillTagsByVacancyIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]recommend.Candidate, 0, len(vacancies))
	for _, v := range vacancies {
		tags := tagsByVacancy[v.ID]
		skills := make([]recommend.SkillWeight, 0, len(tags))
		for _, t := range tags {
			skills = append(skills, recommend.SkillWeight{SkillID: t.SkillID, Weight: t.Weight})
		}
		out = append(out, recommend.Candidate{
			ID:               v.ID,
			Title:            v.Title,
			Company:          v.Company,
			City:             v.City,
			Description:      v.Description,
			Requirements:     v.Requirements,
			Responsibilities: v.Responsibilities,
			PublishedAt:      v.PublishedAt,
			Skills:           skills,
		})
	}
	return out, nil
}

func (u *Recommendation) normalizeLimit(limit int) int {
	if limit <= 0 {
		limit = u.defaultLimit
	}
	if limit > maxRecommendationLimit {
		limit = maxRecommendationLimit
	}
	return limit
}
