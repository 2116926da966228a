package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vitalia/internal/domain"
	"vitalia/internal/service"
)

func setupGamificationRouter(profiles *mockProfileRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gamificationSvc := service.NewGamificationService(zap.NewNop(), profiles)
	missionSvc := service.NewMissionService(zap.NewNop(), service.NewMemoryMissionStore(), gamificationSvc)
	gamificationSvc.AttachMissionTracker(missionSvc)
	h := NewGamificationHandler(zap.NewNop(), gamificationSvc, missionSvc)
	r := gin.New()
	r.POST("/gamification/xp", h.AddXP)
	r.GET("/gamification/profile/:userId", h.GetProfile)
	r.GET("/gamification/missions/:userId", h.ListMissions)
	r.POST("/gamification/missions/complete", h.CompleteMission)
	return r
}

func TestAddXP_Success(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.profiles["u1"] = domain.GamificationProfile{UserID: "u1", XP: 90, Level: 1}
	r := setupGamificationRouter(profiles)

	rec := performRequest(r, http.MethodPost, "/gamification/xp", map[string]any{
		"userId": "u1",
		"amount": 20,
		"action": "workout",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success       bool `json:"success"`
		XP            int  `json:"xp"`
		Level         int  `json:"level"`
		CurrentStreak int  `json:"current_streak"`
		LeveledUp     bool `json:"leveledUp"`
		XPAdded       int  `json:"xpAdded"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !body.Success || body.XP != 110 || body.Level != 2 || !body.LeveledUp || body.XPAdded != 20 {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.CurrentStreak != 1 {
		t.Fatalf("expected streak to start at 1, got %d", body.CurrentStreak)
	}
}

func TestAddXP_MissingFields(t *testing.T) {
	r := setupGamificationRouter(newMockProfileRepo())

	rec := performRequest(r, http.MethodPost, "/gamification/xp", map[string]any{
		"userId": "u1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAddXP_ProfileNotFound(t *testing.T) {
	r := setupGamificationRouter(newMockProfileRepo())

	rec := performRequest(r, http.MethodPost, "/gamification/xp", map[string]any{
		"userId": "ghost",
		"amount": 10,
		"action": "workout",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestGetProfile_Success(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.profiles["u1"] = domain.GamificationProfile{UserID: "u1", FullName: "Ana", XP: 150, Level: 2, CurrentStreak: 3}
	r := setupGamificationRouter(profiles)

	rec := performRequest(r, http.MethodGet, "/gamification/profile/u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		XP              int     `json:"xp"`
		Level           int     `json:"level"`
		CurrentStreak   int     `json:"current_streak"`
		FullName        string  `json:"full_name"`
		NextLevelXP     int     `json:"nextLevelXp"`
		ProgressPercent float64 `json:"progressPercent"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.FullName != "Ana" || body.XP != 150 || body.NextLevelXP != 400 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	r := setupGamificationRouter(newMockProfileRepo())

	rec := performRequest(r, http.MethodGet, "/gamification/profile/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestListMissions_ReturnsDailySet(t *testing.T) {
	r := setupGamificationRouter(newMockProfileRepo())

	rec := performRequest(r, http.MethodGet, "/gamification/missions/u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Missions []domain.Mission `json:"missions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Missions) != 3 {
		t.Fatalf("expected 3 missions, got %d", len(body.Missions))
	}
}

func TestCompleteMission_AwardsAndThenNoop(t *testing.T) {
	profiles := newMockProfileRepo()
	profiles.profiles["u1"] = domain.GamificationProfile{UserID: "u1", Level: 1}
	r := setupGamificationRouter(profiles)

	rec := performRequest(r, http.MethodPost, "/gamification/missions/complete", map[string]any{
		"userId":    "u1",
		"missionId": "m_move",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Success bool `json:"success"`
		Awarded bool `json:"awarded"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !body.Success || !body.Awarded {
		t.Fatalf("expected awarded completion, got %+v", body)
	}
	if profiles.profiles["u1"].XP != 50 {
		t.Fatalf("expected 50 xp credited, got %d", profiles.profiles["u1"].XP)
	}

	rec = performRequest(r, http.MethodPost, "/gamification/missions/complete", map[string]any{
		"userId":    "u1",
		"missionId": "m_move",
	})
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Awarded {
		t.Fatalf("expected repeat completion to be a no-op")
	}
	if profiles.profiles["u1"].XP != 50 {
		t.Fatalf("expected xp unchanged, got %d", profiles.profiles["u1"].XP)
	}
}

func TestCompleteMission_MissingFields(t *testing.T) {
	r := setupGamificationRouter(newMockProfileRepo())

	rec := performRequest(r, http.MethodPost, "/gamification/missions/complete", map[string]any{
		"userId": "u1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
