package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"job-finder/internal/domain/recommend"
	"job-finder/internal/domain/skill"
	"job-finder/internal/domain/vacancy"
	"job-finder/internal/repository"

	"github.com/google/uuid"
)

type fakeCacheRepo struct {
	rows       map[uuid.UUID][]repository.CachedRecommendation
	replaced   [][]repository.CacheEntry
	listErr    error
	replaceErr error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{rows: make(map[uuid.UUID][]repository.CachedRecommendation)}
}

func (f *fakeCacheRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]repository.CachedRecommendation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	rows := f.rows[userID]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeCacheRepo) ReplaceForUser(ctx context.Context, userID uuid.UUID, entries []repository.CacheEntry) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced = append(f.replaced, entries)
	rows := make([]repository.CachedRecommendation, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, repository.CachedRecommendation{VacancyID: e.VacancyID, Score: e.Score})
	}
	f.rows[userID] = rows
	return nil
}

type fakeVacancyRepo struct {
	vacancies []vacancy.Vacancy
	tags      map[uuid.UUID][]vacancy.SkillTag
	err       error
}

func (f *fakeVacancyRepo) ListCandidates(ctx context.Context) ([]vacancy.Vacancy, error) {
	return f.vacancies, f.err
}

func (f *fakeVacancyRepo) FindSkillTagsByVacancyIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]vacancy.SkillTag, error) {
	return f.tags, f.err
}

type fakeUserSkillRepo struct {
	skills []skill.UserSkill
	err    error
}

func (f *fakeUserSkillRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	return f.skills, f.err
}

type fakeProfileRepo struct {
	profile repository.Profile
	err     error
}

func (f *fakeProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (repository.Profile, error) {
	return f.profile, f.err
}

type fakeSnapshots struct {
	store   map[string][]byte
	deleted []string
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{store: make(map[string][]byte)}
}

func (f *fakeSnapshots) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, ok := f.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (f *fakeSnapshots) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = raw
	return nil
}

func (f *fakeSnapshots) Delete(ctx context.Context, key string) error {
	delete(f.store, key)
	return nil
}

func (f *fakeSnapshots) DeleteByPattern(ctx context.Context, pattern string) error {
	f.deleted = append(f.deleted, pattern)
	f.store = make(map[string][]byte)
	return nil
}

func (f *fakeSnapshots) SetIfNotExists(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if _, ok := f.store[key]; ok {
		return false, nil
	}
	f.store[key] = []byte(value)
	return true, nil
}

type fakeScheduler struct {
	calls []uuid.UUID
}

func (f *fakeScheduler) Schedule(userID uuid.UUID, limit int) {
	f.calls = append(f.calls, userID)
}

func testRanker(t *testing.T) *recommend.Ranker {
	t.Helper()
	r, err := recommend.NewRanker(recommend.DefaultWeights(), nil)
	if err != nil {
		t.Fatalf("NewRanker: %v", err)
	}
	return r
}

func TestGetRecommendations_RejectsNilUser(t *testing.T) {
	uc := NewRecommendationUsecase(newFakeCacheRepo(), &fakeVacancyRepo{}, &fakeUserSkillRepo{}, &fakeProfileRepo{}, testRanker(t), nil, 0, 10, nil)
	if _, err := uc.GetRecommendations(context.Background(), uuid.Nil, 10); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGetRecommendations_WarmCacheServedWithoutScheduling(t *testing.T) {
	userID := uuid.New()
	cacheRepo := newFakeCacheRepo()
	cacheRepo.rows[userID] = []repository.CachedRecommendation{
		{VacancyID: uuid.New(), Title: "Go Engineer", Company: "Acme", City: "Jakarta", Score: 0.91},
		{VacancyID: uuid.New(), Title: "Platform Engineer", Company: "Beta", City: "Bandung", Score: 0.42},
	}
	scheduler := &fakeScheduler{}

	uc := NewRecommendationUsecase(cacheRepo, &fakeVacancyRepo{}, &fakeUserSkillRepo{}, &fakeProfileRepo{}, testRanker(t), newFakeSnapshots(), time.Minute, 10, nil)
	uc.SetScheduler(scheduler)

	got, err := uc.GetRecommendations(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Title != "Go Engineer" || got[0].Score != 0.91 {
		t.Fatalf("unexpected first item: %+v", got[0])
	}
	if len(scheduler.calls) != 0 {
		t.Fatalf("warm cache must not schedule a refresh")
	}
}

func TestGetRecommendations_SnapshotHitSkipsRepository(t *testing.T) {
	userID := uuid.New()
	snaps := newFakeSnapshots()
	items := []RecommendationItem{{VacancyID: uuid.New(), Title: "Cached", Score: 0.5}}
	if err := snaps.SetJSON(context.Background(), RecommendationsSnapshotKey(userID, 10), items, time.Minute); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	cacheRepo := newFakeCacheRepo()
	cacheRepo.listErr = errors.New("must not be reached")

	uc := NewRecommendationUsecase(cacheRepo, &fakeVacancyRepo{}, &fakeUserSkillRepo{}, &fakeProfileRepo{}, testRanker(t), snaps, time.Minute, 10, nil)
	got, err := uc.GetRecommendations(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Cached" {
		t.Fatalf("expected snapshot contents, got %+v", got)
	}
}

func TestGetRecommendations_ColdCacheReturnsEmptyAndSchedules(t *testing.T) {
	userID := uuid.New()
	scheduler := &fakeScheduler{}

	uc := NewRecommendationUsecase(newFakeCacheRepo(), &fakeVacancyRepo{}, &fakeUserSkillRepo{}, &fakeProfileRepo{}, testRanker(t), newFakeSnapshots(), time.Minute, 10, nil)
	uc.SetScheduler(scheduler)

	got, err := uc.GetRecommendations(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("cold cache must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("cold cache must return an empty list, got %d items", len(got))
	}
	if len(scheduler.calls) != 1 || scheduler.calls[0] != userID {
		t.Fatalf("cold cache must schedule exactly one refresh for the user")
	}
}

func TestGetRecommendations_RepositoryErrorIsInternal(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	cacheRepo.listErr = errors.New("connection reset")

	uc := NewRecommendationUsecase(cacheRepo, &fakeVacancyRepo{}, &fakeUserSkillRepo{}, &fakeProfileRepo{}, testRanker(t), nil, 0, 10, nil)
	if _, err := uc.GetRecommendations(context.Background(), uuid.New(), 10); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestGetRecommendations_LimitClamped(t *testing.T) {
	userID := uuid.New()
	cacheRepo := newFakeCacheRepo()
	for i := 0; i < 60; i++ {
		cacheRepo.rows[userID] = append(cacheRepo.rows[userID], repository.CachedRecommendation{VacancyID: uuid.New(), Score: 0.5})
	}

	uc := NewRecommendationUsecase(cacheRepo, &fakeVacancyRepo{}, &fakeUserSkillRepo{}, &fakeProfileRepo{}, testRanker(t), nil, 0, 10, nil)
	got, err := uc.GetRecommendations(context.Background(), userID, 500)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(got) != maxRecommendationLimit {
		t.Fatalf("expected limit clamped to %d, got %d", maxRecommendationLimit, len(got))
	}
}

func TestRefreshCache_ReplacesGenerationAndInvalidatesSnapshot(t *testing.T) {
	userID := uuid.New()
	goSkill := uuid.New()
	staleVacancy := uuid.New()

	published := time.Now().UTC().Add(-24 * time.Hour)
	match := vacancy.Vacancy{ID: uuid.New(), Title: "Go Engineer", Description: "go services", PublishedAt: &published}

	cacheRepo := newFakeCacheRepo()
	cacheRepo.rows[userID] = []repository.CachedRecommendation{{VacancyID: staleVacancy, Score: 0.1}}

	vacancies := &fakeVacancyRepo{
		vacancies: []vacancy.Vacancy{match},
		tags:      map[uuid.UUID][]vacancy.SkillTag{match.ID: {{VacancyID: match.ID, SkillID: goSkill}}},
	}
	userSkills := &fakeUserSkillRepo{skills: []skill.UserSkill{{UserID: userID, SkillID: goSkill, SkillName: "Go"}}}
	snaps := newFakeSnapshots()
	snaps.store[RecommendationsSnapshotKey(userID, 10)] = []byte(`[]`)

	uc := NewRecommendationUsecase(cacheRepo, vacancies, userSkills, &fakeProfileRepo{}, testRanker(t), snaps, time.Minute, 10, nil)
	if err := uc.RefreshCache(context.Background(), userID, 10); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}

	if len(cacheRepo.replaced) != 1 {
		t.Fatalf("expected one replace call, got %d", len(cacheRepo.replaced))
	}
	gen := cacheRepo.replaced[0]
	if len(gen) != 1 || gen[0].VacancyID != match.ID {
		t.Fatalf("new generation must contain only the re-scored vacancy, got %+v", gen)
	}
	for _, e := range gen {
		if e.VacancyID == staleVacancy {
			t.Fatalf("stale entry survived the replace")
		}
	}
	if len(snaps.deleted) != 1 || snaps.deleted[0] != RecommendationsSnapshotPattern(userID) {
		t.Fatalf("refresh must invalidate the user's snapshots, got %v", snaps.deleted)
	}
}

func TestRefreshCache_FailureKeepsPreviousGeneration(t *testing.T) {
	userID := uuid.New()
	cacheRepo := newFakeCacheRepo()
	cacheRepo.rows[userID] = []repository.CachedRecommendation{{VacancyID: uuid.New(), Score: 0.7}}

	vacancies := &fakeVacancyRepo{err: errors.New("db down")}
	uc := NewRecommendationUsecase(cacheRepo, vacancies, &fakeUserSkillRepo{}, &fakeProfileRepo{}, testRanker(t), nil, 0, 10, nil)

	if err := uc.RefreshCache(context.Background(), userID, 10); err == nil {
		t.Fatalf("expected an error from the failed refresh")
	}
	if len(cacheRepo.replaced) != 0 {
		t.Fatalf("failed refresh must not touch the cached generation")
	}
	if len(cacheRepo.rows[userID]) != 1 {
		t.Fatalf("previous generation must survive a failed refresh")
	}
}

func TestRefreshCache_NoSignalUserWritesEmptyGeneration(t *testing.T) {
	userID := uuid.New()
	cacheRepo := newFakeCacheRepo()
	cacheRepo.rows[userID] = []repository.CachedRecommendation{{VacancyID: uuid.New(), Score: 0.3}}

	published := time.Now().UTC()
	v := vacancy.Vacancy{ID: uuid.New(), Title: "Any Role", PublishedAt: &published}
	vacancies := &fakeVacancyRepo{vacancies: []vacancy.Vacancy{v}, tags: map[uuid.UUID][]vacancy.SkillTag{}}

	uc := NewRecommendationUsecase(cacheRepo, vacancies, &fakeUserSkillRepo{}, &fakeProfileRepo{}, testRanker(t), nil, 0, 10, nil)
	if err := uc.RefreshCache(context.Background(), userID, 10); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}
	if len(cacheRepo.rows[userID]) != 0 {
		t.Fatalf("a user with no signals must end with an empty generation")
	}
}
