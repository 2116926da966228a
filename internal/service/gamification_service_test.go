package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vitalia/internal/domain"
)

type mockGamProfileRepo struct {
	profiles  map[string]domain.GamificationProfile
	getErr    error
	updateErr error
}

func newMockGamProfileRepo() *mockGamProfileRepo {
	return &mockGamProfileRepo{profiles: make(map[string]domain.GamificationProfile)}
}

func (m *mockGamProfileRepo) GetGamification(_ context.Context, userID string) (domain.GamificationProfile, error) {
	if m.getErr != nil {
		return domain.GamificationProfile{}, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return domain.GamificationProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockGamProfileRepo) UpdateGamification(_ context.Context, profile domain.GamificationProfile) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.profiles[profile.UserID]; !ok {
		return pgx.ErrNoRows
	}
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockGamProfileRepo) TouchLastActive(_ context.Context, userID string, at time.Time) error {
	p, ok := m.profiles[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	p.LastActiveAt = at
	m.profiles[userID] = p
	return nil
}

type mockMissionCompleter struct {
	completed []string
	err       error
}

func (m *mockMissionCompleter) CompleteMission(_ context.Context, userID, missionID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.completed = append(m.completed, userID+"|"+missionID)
	return true, nil
}

func newTestGamificationService(repo *mockGamProfileRepo, now time.Time) *GamificationService {
	svc := NewGamificationService(zap.NewNop(), repo)
	svc.now = func() time.Time { return now }
	return svc
}

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func TestAddXP_LevelUp(t *testing.T) {
	repo := newMockGamProfileRepo()
	repo.profiles["u1"] = domain.GamificationProfile{UserID: "u1", XP: 90, Level: 1, LastActiveAt: testNow}
	svc := newTestGamificationService(repo, testNow)

	result, err := svc.AddXP(context.Background(), "u1", 20, "workout_completed")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.XP != 110 || result.Level != 2 || !result.LeveledUp {
		t.Fatalf("expected level up to 2 at 110xp, got %+v", result)
	}
	if result.XPAdded != 20 {
		t.Fatalf("expected xpAdded 20, got %d", result.XPAdded)
	}
}

func TestAddXP_NoLevelUp(t *testing.T) {
	repo := newMockGamProfileRepo()
	repo.profiles["u1"] = domain.GamificationProfile{UserID: "u1", XP: 50, Level: 1, LastActiveAt: testNow}
	svc := newTestGamificationService(repo, testNow)

	result, err := svc.AddXP(context.Background(), "u1", 10, "log_food")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.XP != 60 || result.Level != 1 || result.LeveledUp {
		t.Fatalf("expected no level up at 60xp, got %+v", result)
	}
}

func TestAddXP_SingleLevelStepPerCall(t *testing.T) {
	repo := newMockGamProfileRepo()
	repo.profiles["u1"] = domain.GamificationProfile{UserID: "u1", XP: 0, Level: 1, LastActiveAt: testNow}
	svc := newTestGamificationService(repo, testNow)

	// 1000xp cruza los umbrales de nivel 2 (100) y 3 (400), pero el nivel
	// avanza un solo paso por llamada.
	result, err := svc.AddXP(context.Background(), "u1", 1000, "workout_completed")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Level != 2 || !result.LeveledUp {
		t.Fatalf("expected single-step level up, got %+v", result)
	}
}

func TestAddXP_StreakTransitions(t *testing.T) {
	cases := []struct {
		name       string
		lastActive time.Time
		streak     int
		want       int
	}{
		{"same day unchanged", testNow.Add(-6 * time.Hour), 4, 4},
		{"yesterday increments", testNow.AddDate(0, 0, -1), 4, 5},
		{"three days ago resets", testNow.AddDate(0, 0, -3), 4, 1},
		{"never active starts at 1", time.Time{}, 0, 1},
	}
	for _, tc := range cases {
		repo := newMockGamProfileRepo()
		repo.profiles["u1"] = domain.GamificationProfile{UserID: "u1", XP: 10, Level: 1, CurrentStreak: tc.streak, LastActiveAt: tc.lastActive}
		svc := newTestGamificationService(repo, testNow)

		result, err := svc.AddXP(context.Background(), "u1", 5, "drink_water")
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.name, err)
		}
		if result.CurrentStreak != tc.want {
			t.Fatalf("%s: expected streak %d, got %d", tc.name, tc.want, result.CurrentStreak)
		}
	}
}

func TestAddXP_PersistsLastActive(t *testing.T) {
	repo := newMockGamProfileRepo()
	repo.profiles["u1"] = domain.GamificationProfile{UserID: "u1", XP: 0, Level: 1, LastActiveAt: testNow.AddDate(0, 0, -1)}
	svc := newTestGamificationService(repo, testNow)

	if _, err := svc.AddXP(context.Background(), "u1", 5, "mind_session"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := repo.profiles["u1"].LastActiveAt; !got.Equal(testNow) {
		t.Fatalf("expected last active %v, got %v", testNow, got)
	}
}

func TestAddXP_ProfileNotFound(t *testing.T) {
	svc := newTestGamificationService(newMockGamProfileRepo(), testNow)

	_, err := svc.AddXP(context.Background(), "ghost", 10, "log_food")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestAddXP_InvalidInput(t *testing.T) {
	svc := newTestGamificationService(newMockGamProfileRepo(), testNow)

	cases := []struct {
		userID string
		amount int
		action string
	}{
		{"", 10, "log_food"},
		{"u1", 0, "log_food"},
		{"u1", -5, "log_food"},
		{"u1", 10, "  "},
	}
	for i, tc := range cases {
		if _, err := svc.AddXP(context.Background(), tc.userID, tc.amount, tc.action); !errors.Is(err, ErrInvalidXPInput) {
			t.Fatalf("case %d: expected ErrInvalidXPInput, got %v", i, err)
		}
	}
}

func TestAddXP_UpstreamError(t *testing.T) {
	repo := newMockGamProfileRepo()
	repo.getErr = errors.New("connection refused")
	svc := newTestGamificationService(repo, testNow)

	_, err := svc.AddXP(context.Background(), "u1", 10, "log_food")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestAddXP_AutoCompletesMappedMission(t *testing.T) {
	repo := newMockGamProfileRepo()
	repo.profiles["u1"] = domain.GamificationProfile{UserID: "u1", XP: 0, Level: 1, LastActiveAt: testNow}
	svc := newTestGamificationService(repo, testNow)
	completer := &mockMissionCompleter{}
	svc.AttachMissionTracker(completer)

	if _, err := svc.AddXP(context.Background(), "u1", 10, "fridge_analysis"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(completer.completed) != 1 || completer.completed[0] != "u1|m_eat" {
		t.Fatalf("expected auto-complete of m_eat, got %v", completer.completed)
	}
}

func TestAddXP_MissionActionsDoNotRecurse(t *testing.T) {
	repo := newMockGamProfileRepo()
	repo.profiles["u1"] = domain.GamificationProfile{UserID: "u1", XP: 0, Level: 1, LastActiveAt: testNow}
	svc := newTestGamificationService(repo, testNow)
	completer := &mockMissionCompleter{}
	svc.AttachMissionTracker(completer)

	if _, err := svc.AddXP(context.Background(), "u1", 50, "mission_m_move"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(completer.completed) != 0 {
		t.Fatalf("mission_* actions must not trigger auto-complete, got %v", completer.completed)
	}
}

func TestAddXP_AutoCompleteFailureIsNotFatal(t *testing.T) {
	repo := newMockGamProfileRepo()
	repo.profiles["u1"] = domain.GamificationProfile{UserID: "u1", XP: 0, Level: 1, LastActiveAt: testNow}
	svc := newTestGamificationService(repo, testNow)
	svc.AttachMissionTracker(&mockMissionCompleter{err: errors.New("store down")})

	result, err := svc.AddXP(context.Background(), "u1", 10, "routine_generated")
	if err != nil {
		t.Fatalf("expected addXP to survive auto-complete failure, got %v", err)
	}
	if result.XP != 10 {
		t.Fatalf("expected xp persisted, got %+v", result)
	}
}

func TestGetProfileSummary_Progress(t *testing.T) {
	repo := newMockGamProfileRepo()
	repo.profiles["u1"] = domain.GamificationProfile{UserID: "u1", FullName: "Ana", XP: 150, Level: 2}
	svc := newTestGamificationService(repo, testNow)

	summary, err := svc.GetProfileSummary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.NextLevelXP != 400 {
		t.Fatalf("expected next level at 400xp, got %d", summary.NextLevelXP)
	}
	// (150-100)/(400-100) = 16.66...%
	if summary.ProgressPercent < 16.6 || summary.ProgressPercent > 16.7 {
		t.Fatalf("expected ~16.67%%, got %v", summary.ProgressPercent)
	}
	if summary.FullName != "Ana" {
		t.Fatalf("expected full name, got %q", summary.FullName)
	}
}

func TestGetProfileSummary_PercentIsClamped(t *testing.T) {
	repo := newMockGamProfileRepo()
	// XP por debajo del arranque del nivel (estado corrupto) no produce
	// porcentaje negativo.
	repo.profiles["low"] = domain.GamificationProfile{UserID: "low", XP: 50, Level: 2}
	repo.profiles["high"] = domain.GamificationProfile{UserID: "high", XP: 999, Level: 2}
	svc := newTestGamificationService(repo, testNow)

	low, err := svc.GetProfileSummary(context.Background(), "low")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if low.ProgressPercent != 0 {
		t.Fatalf("expected clamp at 0, got %v", low.ProgressPercent)
	}

	high, err := svc.GetProfileSummary(context.Background(), "high")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if high.ProgressPercent != 100 {
		t.Fatalf("expected clamp at 100, got %v", high.ProgressPercent)
	}
}

func TestGetProfileSummary_NotFound(t *testing.T) {
	svc := newTestGamificationService(newMockGamProfileRepo(), testNow)

	_, err := svc.GetProfileSummary(context.Background(), "ghost")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
