package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitalia/internal/domain"
)

// xpAwarder es lo mínimo que el tracker necesita del motor de XP.
type xpAwarder interface {
	AddXP(ctx context.Context, userID string, amount int, action string) (domain.XPResult, error)
}

// MissionService administra las tres misiones diarias por usuario. El
// reset diario es una precondición explícita: toda lectura o completado
// pasa primero por CheckDailyReset.
type MissionService struct {
	logger *zap.Logger
	store  MissionStore
	xp     xpAwarder
	now    func() time.Time
}

func NewMissionService(logger *zap.Logger, store MissionStore, xp xpAwarder) *MissionService {
	return &MissionService{
		logger: logger,
		store:  store,
		xp:     xp,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MissionService) today() string {
	return s.now().Format("2006-01-02")
}

// CheckDailyReset materializa el set fresco de misiones cuando el día
// calendario cambió y devuelve el set vigente.
func (s *MissionService) CheckDailyReset(ctx context.Context, userID string) ([]domain.Mission, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, &ValidationError{Details: []string{"userId is required"}}
	}

	date := s.today()
	missions, ok, err := s.store.Get(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if ok {
		return missions, nil
	}

	fresh := domain.DefaultMissions()
	if err := s.store.Put(ctx, userID, date, fresh); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return fresh, nil
}

// ListMissions devuelve las misiones del día, reseteando si corresponde.
func (s *MissionService) ListMissions(ctx context.Context, userID string) ([]domain.Mission, error) {
	return s.CheckDailyReset(ctx, userID)
}

// CompleteMission marca la misión y acredita su XP exactamente una vez por
// día. Misión desconocida o ya completada es un no-op (awarded=false); el
// completado directo y el auto-completado por acción comparten esta guarda.
func (s *MissionService) CompleteMission(ctx context.Context, userID, missionID string) (bool, error) {
	missions, err := s.CheckDailyReset(ctx, userID)
	if err != nil {
		return false, err
	}

	idx := -1
	for i := range missions {
		if missions[i].ID == missionID {
			idx = i
			break
		}
	}
	if idx < 0 || missions[idx].Completed {
		return false, nil
	}

	missions[idx].Completed = true
	if err := s.store.Put(ctx, userID, s.today(), missions); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// El premio va después de marcar: si fallara, la misión queda
	// completada y no se re-premia, igual que el cliente original.
	if s.xp != nil {
		if _, err := s.xp.AddXP(ctx, userID, missions[idx].XPReward, "mission_"+missionID); err != nil {
			s.logger.Warn("mission xp award failed",
				zap.String("user_id", userID),
				zap.String("mission_id", missionID),
				zap.Error(err),
			)
		}
	}

	return true, nil
}
