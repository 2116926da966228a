package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitalia/internal/ai"
	"vitalia/internal/domain"
	"vitalia/internal/repository"
)

// XP otorgado al generar una rutina desde el coach.
const routineXPReward = 25

// CoachService son los proxies delgados hacia el modelo generativo:
// rutinas de gym, chat del diario mental y feed diario de bienestar. La
// inteligencia vive en el modelo externo; acá solo validamos, delegamos y
// persistimos lo no fatal.
type CoachService struct {
	logger   *zap.Logger
	client   ai.Client
	journal  repository.JournalRepository
	profiles repository.ProfileRepository
	xp       xpAwarder
	now      func() time.Time
}

func NewCoachService(logger *zap.Logger, client ai.Client, journal repository.JournalRepository, profiles repository.ProfileRepository, xp xpAwarder) *CoachService {
	return &CoachService{
		logger:   logger,
		client:   client,
		journal:  journal,
		profiles: profiles,
		xp:       xp,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GenerateRoutine pide una rutina al modelo y, si hay usuario, acredita el
// XP de routine_generated (no fatal).
func (s *CoachService) GenerateRoutine(ctx context.Context, userID string, userProfile map[string]any, goal string) (json.RawMessage, error) {
	details := []string{}
	if userProfile == nil {
		details = append(details, "userProfile must be an object")
	}
	switch goal {
	case domain.GoalMuscleGain, domain.GoalWeightLoss, domain.GoalMaintenance:
	default:
		details = append(details, "goal must be one of: muscle_gain, weight_loss, maintenance")
	}
	if len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	profileJSON, err := json.Marshal(userProfile)
	if err != nil {
		return nil, fmt.Errorf("marshal user profile: %w", err)
	}

	prompt := fmt.Sprintf(
		"Genera una rutina de gimnasio en JSON para este perfil: %s, objetivo: %s. Responde solo el objeto JSON con routineName, difficulty, durationMinutes, estimatedCalories, exercises, warmup, cooldown y explanation.",
		profileJSON, goal,
	)
	raw, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	routine := extractFirstJSONObject(cleanModelJSONResponse(raw))
	if routine == "" || !json.Valid([]byte(routine)) {
		return nil, fmt.Errorf("%w: malformed model output", ErrUpstream)
	}

	if userID = strings.TrimSpace(userID); userID != "" && s.xp != nil {
		if _, err := s.xp.AddXP(ctx, userID, routineXPReward, "routine_generated"); err != nil {
			s.logger.Warn("routine xp award failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	return json.RawMessage(routine), nil
}

// ChatResult es la respuesta del chat del diario.
type ChatResult struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

// Chat delega el mensaje al modelo y guarda ambos lados en el diario
// mental cuando hay usuario. Fallas del diario se loguean y no anulan la
// respuesta.
func (s *CoachService) Chat(ctx context.Context, userID, sessionID, message string, history []string) (ChatResult, error) {
	details := []string{}
	message = strings.TrimSpace(message)
	if message == "" {
		details = append(details, "message cannot be empty")
	}
	if len(message) > 2000 {
		details = append(details, "message must be less than 2000 characters")
	}
	if len(history) > 50 {
		details = append(details, "history cannot exceed 50 messages")
	}
	if len(details) > 0 {
		return ChatResult{}, &ValidationError{Details: details}
	}

	prompt := message
	if len(history) > 0 {
		prompt = strings.Join(history, "\n") + "\n" + message
	}
	response, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return ChatResult{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if sessionID == "" {
		sessionID = fmt.Sprintf("session_%d", s.now().UnixMilli())
	}

	if userID = strings.TrimSpace(userID); userID != "" && s.journal != nil {
		s.saveJournalPair(ctx, userID, sessionID, message, response)
		if s.profiles != nil {
			if err := s.profiles.TouchLastActive(ctx, userID, s.now()); err != nil {
				s.logger.Warn("last active touch failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
	}

	return ChatResult{Response: response, SessionID: sessionID}, nil
}

func (s *CoachService) saveJournalPair(ctx context.Context, userID, sessionID, message, response string) {
	now := s.now()
	entries := []domain.JournalEntry{
		{ID: uuid.NewString(), UserID: userID, SessionID: sessionID, MessageType: domain.JournalMessageUser, Content: message, CreatedAt: now},
		{ID: uuid.NewString(), UserID: userID, SessionID: sessionID, MessageType: domain.JournalMessageAssistant, Content: response, CreatedAt: now},
	}
	for _, e := range entries {
		if err := s.journal.Insert(ctx, e); err != nil {
			s.logger.Warn("journal save failed",
				zap.String("user_id", userID),
				zap.String("session_id", sessionID),
				zap.String("message_type", e.MessageType),
				zap.Error(err),
			)
		}
	}
}

// ChatHistory devuelve el diario del usuario, opcionalmente por sesión.
func (s *CoachService) ChatHistory(ctx context.Context, userID, sessionID string, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.journal.ListByUser(ctx, userID, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return entries, nil
}

// DailyFeed pide el feed de bienestar del día según el estado de ánimo.
func (s *CoachService) DailyFeed(ctx context.Context, mood string) (json.RawMessage, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		mood = "neutral"
	}

	prompt := fmt.Sprintf(
		"Genera en JSON el feed de bienestar de hoy para un usuario con estado de ánimo %q. Responde solo el objeto JSON.",
		mood,
	)
	raw, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	feed := extractFirstJSONObject(cleanModelJSONResponse(raw))
	if feed == "" || !json.Valid([]byte(feed)) {
		return nil, fmt.Errorf("%w: malformed model output", ErrUpstream)
	}
	return json.RawMessage(feed), nil
}
