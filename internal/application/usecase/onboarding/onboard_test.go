package onboarding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financial-frontier/backend/adapters/event"
	"github.com/financial-frontier/backend/internal/application/service"
	"github.com/financial-frontier/backend/internal/domain/progression"
	"github.com/financial-frontier/backend/internal/domain/topic"
	"github.com/financial-frontier/backend/internal/domain/user"
	"github.com/financial-frontier/backend/pkg/apperror"
	"github.com/financial-frontier/backend/pkg/logger"
)

type fakeRankingService struct {
	ranked []string
	err    error
	calls  int
}

func (f *fakeRankingService) RankTopics(ctx context.Context, quiz user.QuizResult) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.ranked, nil
}

// fakeUserRepo mimics the store's transactional guarantee: the existence
// check and the dual write happen under one lock, so concurrent onboarding
// for the same user is first-writer-wins.
type fakeUserRepo struct {
	mu       sync.Mutex
	profiles map[string]*user.Profile
	records  map[string]*progression.Record
	failWith error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		profiles: make(map[string]*user.Profile),
		records:  make(map[string]*progression.Record),
	}
}

func (f *fakeUserRepo) CreateWithProgression(ctx context.Context, p *user.Profile, rec *progression.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return f.failWith
	}
	if _, exists := f.profiles[p.UserID]; exists {
		return apperror.NewConflict("User already completed onboarding", p.UserID)
	}
	f.profiles[p.UserID] = p
	f.records[p.UserID] = rec
	return nil
}

func (f *fakeUserRepo) GetStats(ctx context.Context, userID string) (*user.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperror.NewNotFound("User profile", userID)
	}
	s := p.Stats()
	return &s, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []event.UserEventPayload
	done   chan struct{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{done: make(chan struct{}, 16)}
}

func (f *fakePublisher) PublishUserEvent(ctx context.Context, payload event.UserEventPayload) error {
	f.mu.Lock()
	f.events = append(f.events, payload)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakePublisher) wait(t *testing.T) event.UserEventPayload {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events[len(f.events)-1]
}

func newTestUseCase(ranking *fakeRankingService, repo *fakeUserRepo, pub *fakePublisher) *OnboardUseCase {
	return NewOnboardUseCase(repo, ranking, pub, logger.NewNop())
}

func quizFixture() user.QuizResult {
	return user.QuizResult{
		FinancialTendency: "saver",
		Weaknesses:        []string{"credit", "debt"},
		PrimaryGoal:       "investing",
	}
}

func TestOnboard_OracleRankingDrivesPathAndSector(t *testing.T) {
	ranking := &fakeRankingService{ranked: []string{"credit", "debt", "investing", "budgeting", "saving"}}
	repo := newFakeUserRepo()
	pub := newFakePublisher()
	uc := newTestUseCase(ranking, repo, pub)

	output, err := uc.Execute(context.Background(), OnboardInput{
		UserID: "u1",
		Email:  "Saver@Example.COM",
		Quiz:   quizFixture(),
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", output.UserID)
	assert.Equal(t, "Novice Explorer", output.StartingRank)
	assert.Equal(t, "credit", output.StartingSector)

	p := repo.profiles["u1"]
	require.NotNil(t, p)
	assert.Equal(t, "saver@example.com", p.Email)
	assert.Equal(t, "Novice Explorer", p.ExplorerRank)
	assert.Equal(t, 100, p.FinancialIQ)
	assert.Equal(t, 50, p.Coins)
	assert.Equal(t, "credit", p.CurrentSector)
	assert.Equal(t, quizFixture(), p.OnboardingStatus)
	assert.False(t, p.CreatedAt.IsZero())

	rec := repo.records["u1"]
	require.NotNil(t, rec)
	require.Len(t, rec.Topics, 5)
	wantOrder := []string{"credit", "debt", "investing", "budgeting", "saving"}
	for i, e := range rec.Topics {
		assert.Equal(t, wantOrder[i], e.TopicID)
		assert.Equal(t, i == 0, e.IsUnlocked)
		assert.Empty(t, e.Waypoints)
	}

	published := pub.wait(t)
	assert.Equal(t, event.UserEventTypeOnboarded, published.EventType)
	assert.Equal(t, "u1", published.UserID)
	assert.Equal(t, "credit", published.StartingSector)
	assert.NotEmpty(t, published.EventID)
}

func TestOnboard_RankingUnavailableFallsBackToDefaultOrder(t *testing.T) {
	ranking := &fakeRankingService{err: service.ErrRankingUnavailable}
	repo := newFakeUserRepo()
	uc := newTestUseCase(ranking, repo, newFakePublisher())

	output, err := uc.Execute(context.Background(), OnboardInput{
		UserID: "u2",
		Email:  "u2@example.com",
		Quiz:   quizFixture(),
	})

	require.NoError(t, err, "oracle failure must never surface to the caller")
	assert.Equal(t, "budgeting", output.StartingSector)

	rec := repo.records["u2"]
	require.NotNil(t, rec)
	var gotOrder []string
	for _, e := range rec.Topics {
		gotOrder = append(gotOrder, e.TopicID)
	}
	assert.Equal(t, topic.DefaultOrder(), gotOrder)
	assert.Equal(t, "budgeting", repo.profiles["u2"].CurrentSector)
}

func TestOnboard_MalformedRankingIsSanitized(t *testing.T) {
	ranking := &fakeRankingService{ranked: []string{"credit", "crypto", "credit", "debt"}}
	repo := newFakeUserRepo()
	uc := newTestUseCase(ranking, repo, newFakePublisher())

	output, err := uc.Execute(context.Background(), OnboardInput{
		UserID: "u3",
		Email:  "u3@example.com",
		Quiz:   quizFixture(),
	})

	require.NoError(t, err)
	assert.Equal(t, "credit", output.StartingSector)

	rec := repo.records["u3"]
	require.Len(t, rec.Topics, 5, "record must always hold a full permutation")
	seen := make(map[string]bool)
	for _, e := range rec.Topics {
		assert.True(t, topic.IsValid(e.TopicID))
		assert.False(t, seen[e.TopicID])
		seen[e.TopicID] = true
	}
}

func TestOnboard_MissingIdentityWritesNothing(t *testing.T) {
	ranking := &fakeRankingService{ranked: topic.DefaultOrder()}
	repo := newFakeUserRepo()
	uc := newTestUseCase(ranking, repo, newFakePublisher())

	_, err := uc.Execute(context.Background(), OnboardInput{
		Email: "anon@example.com",
		Quiz:  quizFixture(),
	})

	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Empty(t, repo.profiles)
	assert.Empty(t, repo.records)
	assert.Zero(t, ranking.calls, "ranking oracle must not be called for anonymous requests")
}

func TestOnboard_SecondCallConflicts(t *testing.T) {
	ranking := &fakeRankingService{ranked: topic.DefaultOrder()}
	repo := newFakeUserRepo()
	uc := newTestUseCase(ranking, repo, newFakePublisher())

	input := OnboardInput{UserID: "u4", Email: "u4@example.com", Quiz: quizFixture()}

	_, err := uc.Execute(context.Background(), input)
	require.NoError(t, err)
	firstProfile := repo.profiles["u4"]

	_, err = uc.Execute(context.Background(), input)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	// The losing call must not have touched persisted state.
	assert.Same(t, firstProfile, repo.profiles["u4"])
	assert.Len(t, repo.profiles, 1)
	assert.Len(t, repo.records, 1)
}

func TestOnboard_ConcurrentCallsCommitExactlyOnce(t *testing.T) {
	ranking := &fakeRankingService{ranked: topic.DefaultOrder()}
	repo := newFakeUserRepo()
	uc := newTestUseCase(ranking, repo, newFakePublisher())

	input := OnboardInput{UserID: "u5", Email: "u5@example.com", Quiz: quizFixture()}

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), input)
		}(i)
	}
	wg.Wait()

	committed, conflicted := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, apperror.ErrConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, attempts-1, conflicted)
	assert.Len(t, repo.profiles, 1)
	assert.Len(t, repo.records, 1)
}

func TestOnboard_PersistenceFailurePropagates(t *testing.T) {
	ranking := &fakeRankingService{ranked: topic.DefaultOrder()}
	repo := newFakeUserRepo()
	repo.failWith = apperror.NewInternal("storage unavailable", errors.New("connection refused"))
	uc := newTestUseCase(ranking, repo, newFakePublisher())

	_, err := uc.Execute(context.Background(), OnboardInput{
		UserID: "u6",
		Email:  "u6@example.com",
		Quiz:   quizFixture(),
	})

	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.Empty(t, repo.profiles)
}
