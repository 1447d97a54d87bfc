package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/progcursos/programacao-api/internal/models"
	"github.com/progcursos/programacao-api/internal/repository"
	appErrors "github.com/progcursos/programacao-api/pkg/errors"
)

type availabilityRepo interface {
	List(ctx context.Context) ([]models.AvailabilityRecord, error)
	FindByKey(ctx context.Context, key models.AvailabilityKey) (*models.AvailabilityRecord, error)
	FindByShareToken(ctx context.Context, token string) (*models.AvailabilityRecord, error)
	Upsert(ctx context.Context, record models.AvailabilityRecord) error
}

type shiftLister interface {
	List(ctx context.Context) ([]models.Shift, error)
}

// UpsertAvailabilityRequest stores an instructor's declared slots for a period.
type UpsertAvailabilityRequest struct {
	InstructorID string   `json:"instructor_id" validate:"required"`
	Year         int      `json:"year" validate:"required,min=1"`
	PeriodType   string   `json:"period_type" validate:"required"`
	PeriodValue  string   `json:"period_value"`
	Slots        []string `json:"slots"`
	Notes        string   `json:"notes"`
	UpdatedBy    string   `json:"updated_by"`
}

// ShareLink is the outcome of issuing a share token.
type ShareLink struct {
	RecordID  string `json:"record_id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type shareClaims struct {
	RecordID string `json:"record_id"`
	jwt.RegisteredClaims
}

// AvailabilityService manages declared instructor availability and the
// expiring share links instructors use to answer for themselves.
type AvailabilityService struct {
	records     availabilityRepo
	instructors instructorReader
	shifts      shiftLister
	secret      []byte
	tokenTTL    time.Duration
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewAvailabilityService builds the service.
func NewAvailabilityService(records availabilityRepo, instructors instructorReader, shifts shiftLister, secret string, tokenTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AvailabilityService{
		records:     records,
		instructors: instructors,
		shifts:      shifts,
		secret:      []byte(secret),
		tokenTTL:    tokenTTL,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Get returns the record for a period, or an empty unsaved record when none
// exists yet.
func (s *AvailabilityService) Get(ctx context.Context, instructorID string, year int, periodType, periodValue string) (*models.AvailabilityRecord, error) {
	pType, pValue, err := models.NormalizePeriod(periodType, periodValue)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	key := models.AvailabilityKey{InstructorID: instructorID, Year: year, PeriodType: pType, PeriodValue: pValue}
	record, err := s.records.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.AvailabilityRecord{
				ID:           key.String(),
				InstructorID: instructorID,
				Year:         year,
				PeriodType:   pType,
				PeriodValue:  pValue,
				Slots:        []string{},
				ShareStatus:  models.ShareStatusNotSent,
			}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	return record, nil
}

// Upsert stores the declared slots for an instructor and period.
func (s *AvailabilityService) Upsert(ctx context.Context, req UpsertAvailabilityRequest) (*models.AvailabilityRecord, error) {
	return s.upsert(ctx, req, false)
}

func (s *AvailabilityService) upsert(ctx context.Context, req UpsertAvailabilityRequest, fromShare bool) (*models.AvailabilityRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	instructor, err := s.instructors.FindByID(ctx, req.InstructorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "colaborador não encontrado: "+req.InstructorID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	if instructor.Role != models.RoleInstructor {
		return nil, appErrors.Clone(appErrors.ErrValidation, "disponibilidade só se aplica a colaboradores com categoria Instrutor")
	}

	pType, pValue, err := models.NormalizePeriod(req.PeriodType, req.PeriodValue)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	slots, err := s.normalizeSlots(ctx, req.Slots)
	if err != nil {
		return nil, err
	}

	key := models.AvailabilityKey{InstructorID: req.InstructorID, Year: req.Year, PeriodType: pType, PeriodValue: pValue}
	updatedBy := strings.TrimSpace(req.UpdatedBy)
	if updatedBy == "" {
		updatedBy = "Equipe interna"
	}

	record := models.AvailabilityRecord{
		ID:           key.String(),
		InstructorID: req.InstructorID,
		Year:         req.Year,
		PeriodType:   pType,
		PeriodValue:  pValue,
		Slots:        slots,
		Notes:        strings.TrimSpace(req.Notes),
		UpdatedAt:    s.now().Format(time.RFC3339),
		UpdatedBy:    updatedBy,
		ShareStatus:  models.ShareStatusNotSent,
	}

	if existing, err := s.records.FindByKey(ctx, key); err == nil {
		record.ShareToken = existing.ShareToken
		record.ShareExpiresAt = existing.ShareExpiresAt
		record.ShareStatus = existing.ShareStatus
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	if fromShare {
		record.ShareStatus = models.ShareStatusAnswered
	}

	if err := s.records.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save availability")
	}
	return &record, nil
}

// CreateShareLink issues (or refreshes) a signed, expiring token an
// instructor can use to fill in their own availability. Issuing a new token
// invalidates the previous one for the record.
func (s *AvailabilityService) CreateShareLink(ctx context.Context, instructorID string, year int, periodType, periodValue string) (*ShareLink, error) {
	record, err := s.Get(ctx, instructorID, year, periodType, periodValue)
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.tokenTTL)
	claims := shareClaims{
		RecordID: record.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign share token")
	}

	record.ShareToken = token
	record.ShareExpiresAt = expiresAt.Format(time.RFC3339)
	record.ShareStatus = models.ShareStatusSent
	if err := s.records.Upsert(ctx, *record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save share token")
	}

	s.logger.Info("availability share link issued",
		zap.String("record_id", record.ID), zap.Time("expires_at", expiresAt))
	return &ShareLink{RecordID: record.ID, Token: token, ExpiresAt: record.ShareExpiresAt}, nil
}

// ResolveShareToken verifies a share token and returns the record it grants
// access to. The token must be the one currently stored on the record, so a
// re-issued link revokes its predecessor.
func (s *AvailabilityService) ResolveShareToken(ctx context.Context, token string) (*models.AvailabilityRecord, error) {
	claims := &shareClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "link de disponibilidade inválido ou expirado")
	}

	record, err := s.records.FindByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "link de disponibilidade inválido ou expirado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	if record.ID != claims.RecordID {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "link de disponibilidade inválido ou expirado")
	}
	return record, nil
}

// SharedUpsert saves slots through a share link and marks the record answered.
func (s *AvailabilityService) SharedUpsert(ctx context.Context, token string, slots []string, notes string) (*models.AvailabilityRecord, error) {
	record, err := s.ResolveShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.upsert(ctx, UpsertAvailabilityRequest{
		InstructorID: record.InstructorID,
		Year:         record.Year,
		PeriodType:   record.PeriodType,
		PeriodValue:  record.PeriodValue,
		Slots:        slots,
		Notes:        notes,
		UpdatedBy:    record.InstructorID,
	}, true)
}

// normalizeSlots uppercases, deduplicates and filters slot keys down to
// valid weekday tokens paired with existing shift ids.
func (s *AvailabilityService) normalizeSlots(ctx context.Context, raw []string) ([]string, error) {
	shifts, err := s.shifts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shifts")
	}
	validShifts := make(map[string]struct{}, len(shifts))
	for i := range shifts {
		validShifts[shifts[i].ID] = struct{}{}
	}

	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		day, shiftID, found := strings.Cut(strings.TrimSpace(value), "|")
		if !found {
			continue
		}
		token := models.CanonicalWeekday(day)
		if token == "" {
			continue
		}
		shiftID = strings.TrimSpace(shiftID)
		if _, ok := validShifts[shiftID]; !ok {
			continue
		}
		slot := token + "|" + shiftID
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		out = append(out, slot)
	}
	return out, nil
}
