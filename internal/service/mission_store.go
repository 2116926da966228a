package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"vitalia/internal/domain"
)

// MissionStore guarda el set de misiones del día por usuario. La clave
// lógica es (userID, fecha); un Get con la fecha de hoy que no encuentra
// nada significa que toca reset diario.
type MissionStore interface {
	Get(ctx context.Context, userID, date string) ([]domain.Mission, bool, error)
	Put(ctx context.Context, userID, date string, missions []domain.Mission) error
}

type memoryMissionStore struct {
	mu    sync.Mutex
	items map[string]memoryDailyMissions
}

type memoryDailyMissions struct {
	date     string
	missions []domain.Mission
}

func NewMemoryMissionStore() MissionStore {
	return &memoryMissionStore{
		items: make(map[string]memoryDailyMissions),
	}
}

func (s *memoryMissionStore) Get(_ context.Context, userID, date string) ([]domain.Mission, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[userID]
	if !ok || entry.date != date {
		return nil, false, nil
	}
	missions := make([]domain.Mission, len(entry.missions))
	copy(missions, entry.missions)
	return missions, true, nil
}

func (s *memoryMissionStore) Put(_ context.Context, userID, date string, missions []domain.Mission) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("mission store: empty user id")
	}
	stored := make([]domain.Mission, len(missions))
	copy(stored, missions)
	s.mu.Lock()
	defer s.mu.Unlock()
	// Guardar la fecha nueva descarta implícitamente el día anterior.
	s.items[userID] = memoryDailyMissions{date: date, missions: stored}
	return nil
}

type redisMissionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisMissionStore(client *redis.Client) MissionStore {
	if client == nil {
		return nil
	}
	return &redisMissionStore{
		client: client,
		prefix: "missions:",
		// 48h cubre el día en curso más margen de timezone; las claves de
		// días viejos expiran solas.
		ttl: 48 * time.Hour,
	}
}

func (s *redisMissionStore) key(userID, date string) string {
	return s.prefix + userID + ":" + date
}

func (s *redisMissionStore) Get(ctx context.Context, userID, date string) ([]domain.Mission, bool, error) {
	raw, err := s.client.Get(ctx, s.key(userID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var missions []domain.Mission
	if err := json.Unmarshal(raw, &missions); err != nil {
		return nil, false, err
	}
	return missions, true, nil
}

func (s *redisMissionStore) Put(ctx context.Context, userID, date string, missions []domain.Mission) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("mission store: empty user id")
	}
	raw, err := json.Marshal(missions)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(userID, date), raw, s.ttl).Err()
}
