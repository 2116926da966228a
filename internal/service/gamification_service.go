package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vitalia/internal/domain"
	"vitalia/internal/repository"
)

// missionCompleter permite al motor de XP auto-completar misiones sin
// acoplarse al tracker concreto.
type missionCompleter interface {
	CompleteMission(ctx context.Context, userID, missionID string) (bool, error)
}

// GamificationService es la máquina de estados de XP, nivel y racha por
// usuario. Cada llamada es un read-modify-write contra la fila del perfil;
// el almacén serializa actualizaciones por fila, no hay coordinación extra
// entre dispositivos.
type GamificationService struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
	missions missionCompleter
	now      func() time.Time
}

func NewGamificationService(logger *zap.Logger, profiles repository.ProfileRepository) *GamificationService {
	return &GamificationService{
		logger:   logger,
		profiles: profiles,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AttachMissionTracker conecta el tracker de misiones para auto-completado.
// Se hace post-construcción porque tracker y motor se referencian mutuamente.
func (s *GamificationService) AttachMissionTracker(m missionCompleter) {
	s.missions = m
}

// AddXP acredita XP, evalúa subida de nivel y actualiza la racha diaria.
// El nivel avanza como máximo un paso por llamada aunque el nuevo XP cruce
// varios umbrales (comportamiento heredado).
func (s *GamificationService) AddXP(ctx context.Context, userID string, amount int, action string) (domain.XPResult, error) {
	userID = strings.TrimSpace(userID)
	action = strings.TrimSpace(action)
	if userID == "" || action == "" || amount <= 0 {
		return domain.XPResult{}, ErrInvalidXPInput
	}

	profile, err := s.profiles.GetGamification(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.XPResult{}, ErrProfileNotFound
	}
	if err != nil {
		return domain.XPResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if profile.Level < 1 {
		profile.Level = 1
	}

	now := s.now()
	newXP := profile.XP + amount
	leveledUp := false

	// Umbral del siguiente nivel: 100 * level^2.
	if newXP >= 100*profile.Level*profile.Level {
		profile.Level++
		leveledUp = true
	}

	profile.CurrentStreak = nextStreak(profile.CurrentStreak, profile.LastActiveAt, now)
	profile.XP = newXP
	profile.LastActiveAt = now

	if err := s.profiles.UpdateGamification(ctx, profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.XPResult{}, ErrProfileNotFound
		}
		return domain.XPResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// Auto-completado de misión: fire-and-forget, nunca falla la llamada.
	if s.missions != nil {
		if missionID, ok := missionForAction(action); ok {
			if _, err := s.missions.CompleteMission(ctx, userID, missionID); err != nil {
				s.logger.Warn("mission auto-complete failed",
					zap.String("user_id", userID),
					zap.String("action", action),
					zap.Error(err),
				)
			}
		}
	}

	return domain.XPResult{
		XP:            profile.XP,
		Level:         profile.Level,
		CurrentStreak: profile.CurrentStreak,
		LeveledUp:     leveledUp,
		XPAdded:       amount,
	}, nil
}

// GetProfileSummary devuelve el estado de progreso con el porcentaje hacia
// el siguiente nivel, acotado a [0,100].
func (s *GamificationService) GetProfileSummary(ctx context.Context, userID string) (domain.ProfileSummary, error) {
	profile, err := s.profiles.GetGamification(ctx, strings.TrimSpace(userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProfileSummary{}, ErrProfileNotFound
	}
	if err != nil {
		return domain.ProfileSummary{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if profile.Level < 1 {
		profile.Level = 1
	}

	currentLevelStart := 100 * (profile.Level - 1) * (profile.Level - 1)
	nextLevelStart := 100 * profile.Level * profile.Level

	// A nivel L>=1 el denominador es >= 100, nunca cero.
	percent := 100 * float64(profile.XP-currentLevelStart) / float64(nextLevelStart-currentLevelStart)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	return domain.ProfileSummary{
		XP:              profile.XP,
		Level:           profile.Level,
		CurrentStreak:   profile.CurrentStreak,
		FullName:        profile.FullName,
		NextLevelXP:     nextLevelStart,
		ProgressPercent: percent,
	}, nil
}

// nextStreak evalúa la racha por igualdad de día calendario: mismo día no
// cambia, día siguiente suma, cualquier otro salto reinicia a 1.
func nextStreak(current int, lastActive, now time.Time) int {
	if lastActive.IsZero() {
		return 1
	}
	if sameCalendarDay(now, lastActive) {
		return current
	}
	if sameCalendarDay(now.AddDate(0, 0, -1), lastActive) {
		return current + 1
	}
	return 1
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// missionForAction mapea acciones conocidas a la misión diaria que
// auto-completan. Acciones fuera del mapa (incluidas las mission_*) no
// disparan nada, lo que corta la recursión con CompleteMission.
func missionForAction(action string) (string, bool) {
	switch action {
	case "routine_generated", "workout_completed":
		return "m_move", true
	case "fridge_analysis", "log_food":
		return "m_eat", true
	case "mind_session", "drink_water":
		return "m_water", true
	}
	return "", false
}
