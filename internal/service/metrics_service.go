package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitalia/internal/domain"
	"vitalia/internal/repository"
)

// activityMultipliers mapea nivel de actividad a multiplicador de TDEE.
// Es la única fuente de verdad para los niveles válidos: también se usa
// en la validación de entrada.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// Nivel desconocido cae a "moderate", comportamiento heredado del servicio
// original.
const defaultActivityMultiplier = 1.55

const (
	categoryUnderweight = "Bajo peso"
	categoryNormal      = "Normal"
	categoryOverweight  = "Sobrepeso"
	categoryObese       = "Obesidad"
)

// MetricsService calcula métricas de salud y registra mediciones.
type MetricsService struct {
	logger       *zap.Logger
	measurements repository.MeasurementRepository
	profiles     repository.ProfileRepository
	now          func() time.Time
}

func NewMetricsService(logger *zap.Logger, measurements repository.MeasurementRepository, profiles repository.ProfileRepository) *MetricsService {
	return &MetricsService{
		logger:       logger,
		measurements: measurements,
		profiles:     profiles,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ComputeMetrics valida el perfil corporal y calcula BMI, TMB (Mifflin-St
// Jeor), TDEE, objetivo calórico y macros. Si userID no es vacío, además
// registra la medición y marca actividad; fallas en esa persistencia se
// loguean y no anulan el resultado.
func (s *MetricsService) ComputeMetrics(ctx context.Context, userID string, profile domain.BodyProfile) (domain.MetricsResult, error) {
	if err := validateBodyProfile(profile); err != nil {
		return domain.MetricsResult{}, err
	}

	result, bmi := calculateMetrics(profile)

	if userID = strings.TrimSpace(userID); userID != "" {
		s.recordComputation(ctx, userID, profile.Weight, bmi, result)
	}

	return result, nil
}

// History devuelve las mediciones del usuario, más recientes primero.
func (s *MetricsService) History(ctx context.Context, userID string, limit int) ([]domain.Measurement, error) {
	if limit <= 0 {
		limit = 30
	}
	if limit > 100 {
		limit = 100
	}
	measurements, err := s.measurements.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return measurements, nil
}

// RecordWeight registra una entrada manual de peso sin métricas derivadas.
func (s *MetricsService) RecordWeight(ctx context.Context, userID string, weight float64, notes string) (domain.Measurement, error) {
	details := []string{}
	if strings.TrimSpace(userID) == "" {
		details = append(details, "userId is required")
	}
	if weight <= 0 {
		details = append(details, "weight must be a positive number")
	}
	if len(details) > 0 {
		return domain.Measurement{}, &ValidationError{Details: details}
	}

	m := domain.Measurement{
		ID:         uuid.NewString(),
		UserID:     userID,
		Weight:     weight,
		Notes:      strings.TrimSpace(notes),
		RecordedAt: s.now(),
	}
	if err := s.measurements.Append(ctx, m); err != nil {
		return domain.Measurement{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return m, nil
}

// recordComputation materializa el cálculo como una medición inmutable y
// toca last_active_at. Ambas escrituras son no fatales.
func (s *MetricsService) recordComputation(ctx context.Context, userID string, weight, bmi float64, result domain.MetricsResult) {
	tmb := result.TMB
	tdee := result.TDEE

	m := domain.Measurement{
		ID:         uuid.NewString(),
		UserID:     userID,
		Weight:     weight,
		BMI:        &bmi,
		TMB:        &tmb,
		TDEE:       &tdee,
		RecordedAt: s.now(),
	}
	if err := s.measurements.Append(ctx, m); err != nil {
		s.logger.Warn("measurement save failed", zap.String("user_id", userID), zap.Error(err))
	}
	if s.profiles != nil {
		if err := s.profiles.TouchLastActive(ctx, userID, s.now()); err != nil {
			s.logger.Warn("last active touch failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

func validateBodyProfile(p domain.BodyProfile) error {
	details := []string{}

	if p.Weight <= 20 || p.Weight > 500 {
		details = append(details, "weight must be between 20 and 500 kg")
	}
	if p.Height <= 50 || p.Height > 300 {
		details = append(details, "height must be between 50 and 300 cm")
	}
	if p.Age < 10 || p.Age > 120 {
		details = append(details, "age must be between 10 and 120 years")
	}
	switch p.Gender {
	case domain.GenderMale, domain.GenderFemale, domain.GenderOther:
	default:
		details = append(details, "gender must be 'male', 'female', or 'other'")
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		details = append(details, "activityLevel must be one of: sedentary, light, moderate, active, very_active")
	}

	if len(details) > 0 {
		return &ValidationError{Details: details}
	}
	return nil
}

func calculateMetrics(p domain.BodyProfile) (domain.MetricsResult, float64) {
	heightM := p.Height / 100
	bmi := math.Round(p.Weight/(heightM*heightM)*100) / 100
	category := bmiCategory(bmi)

	// Mifflin-St Jeor. gender=other usa la rama femenina, comportamiento
	// heredado del servicio original.
	bmr := 10*p.Weight + 6.25*p.Height - 5*float64(p.Age)
	if p.Gender == domain.GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	tmb := int(math.Round(bmr))

	mult, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		mult = defaultActivityMultiplier
	}
	tdee := int(math.Round(float64(tmb) * mult))

	goal := p.Goal
	calorieGoal := tdee
	var macros domain.Macros
	switch goal {
	case domain.GoalMuscleGain:
		calorieGoal = tdee + 300
		macros = splitMacros(calorieGoal, 0.30, 0.45, 0.25)
	case domain.GoalWeightLoss:
		calorieGoal = tdee - 500
		macros = splitMacros(calorieGoal, 0.35, 0.35, 0.30)
	default:
		goal = domain.GoalMaintenance
		macros = splitMacros(calorieGoal, 0.25, 0.50, 0.25)
	}

	bmiStr := strconv.FormatFloat(bmi, 'f', -1, 64)
	explanation := fmt.Sprintf(
		"Tu IMC de %s indica %s. Tu metabolismo basal es %d kcal/día, y con tu nivel de actividad necesitas aproximadamente %d kcal diarias. Para tu objetivo de %s, recomendamos %d kcal/día.",
		bmiStr, strings.ToLower(category), tmb, tdee, goalLabel(goal), calorieGoal,
	)

	return domain.MetricsResult{
		BMI:         bmiStr,
		Status:      category,
		TMB:         tmb,
		TDEE:        tdee,
		CalorieGoal: calorieGoal,
		Macros:      macros,
		Explanation: explanation,
	}, bmi
}

// bmiCategory clasifica con límite inferior inclusivo y superior exclusivo.
func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return categoryUnderweight
	case bmi < 25:
		return categoryNormal
	case bmi < 30:
		return categoryOverweight
	default:
		return categoryObese
	}
}

// splitMacros reparte el objetivo calórico: proteína y carbohidratos a
// 4 kcal/g, grasa a 9 kcal/g.
func splitMacros(calorieGoal int, protein, carbs, fats float64) domain.Macros {
	cg := float64(calorieGoal)
	return domain.Macros{
		Protein: int(math.Round(cg * protein / 4)),
		Carbs:   int(math.Round(cg * carbs / 4)),
		Fats:    int(math.Round(cg * fats / 9)),
	}
}

func goalLabel(goal string) string {
	switch goal {
	case domain.GoalMuscleGain:
		return "ganar músculo"
	case domain.GoalWeightLoss:
		return "perder peso"
	default:
		return "mantenimiento"
	}
}
