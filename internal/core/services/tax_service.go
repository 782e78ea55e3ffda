package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/dto"
	"github.com/openclerk/ledger/internal/middleware"
)

// taxRateService manages tax rate definitions and runs computations against
// them. The math lives on domain.TaxRate; this service adds the effectiveness
// gate and persistence.
type taxRateService struct {
	taxRateRepo portsrepo.TaxRateRepositoryFacade
}

// NewTaxRateService creates a new tax rate service.
func NewTaxRateService(repo portsrepo.TaxRateRepositoryFacade) portssvc.TaxRateSvcFacade {
	return &taxRateService{taxRateRepo: repo}
}

var _ portssvc.TaxRateSvcFacade = (*taxRateService)(nil)

// CreateTaxRate defines a new tax rate. When IsDefault is set, the repository
// unsets prior defaults for the same tenant and scope in the same transaction
// as the insert, so two defaults can never coexist.
func (s *taxRateService) CreateTaxRate(ctx context.Context, tenantID string, req dto.CreateTaxRateRequest, actorID string) (*domain.TaxRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rateType := domain.TaxRateType(req.RateType)
	if rateType == domain.Percentage && req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: percentage rate must not be negative", apperrors.ErrValidation)
	}
	if rateType == domain.Fixed && req.FixedAmount.IsNegative() {
		return nil, fmt.Errorf("%w: fixed amount must not be negative", apperrors.ErrValidation)
	}
	if req.EffectiveFrom != nil && req.EffectiveTo != nil && req.EffectiveTo.Before(*req.EffectiveFrom) {
		return nil, fmt.Errorf("%w: effective window ends before it starts", apperrors.ErrValidation)
	}

	appliesTo := req.AppliesTo
	if appliesTo == "" {
		appliesTo = "all"
	}

	now := time.Now().UTC()
	rate := domain.TaxRate{
		RateID:        uuid.NewString(),
		TenantID:      tenantID,
		Code:          req.Code,
		Name:          req.Name,
		RateType:      rateType,
		Rate:          req.Rate,
		FixedAmount:   req.FixedAmount,
		IsInclusive:   req.IsInclusive,
		AppliesTo:     appliesTo,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
		IsDefault:     req.IsDefault,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.taxRateRepo.SaveTaxRate(ctx, rate); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: tax rate code %s already exists", apperrors.ErrDuplicate, req.Code)
		}
		logger.Error("Failed to save tax rate", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, err
	}

	logger.Info("Tax rate created", slog.String("rate_id", rate.RateID), slog.String("code", rate.Code))
	return &rate, nil
}

// UpdateTaxRate replaces the mutable fields of a rate addressed by its code.
// The same default-uniqueness guarantee as creation applies: when IsDefault is
// set, prior defaults for the tenant and scope are unset in the update
// transaction.
func (s *taxRateService) UpdateTaxRate(ctx context.Context, tenantID, code string, req dto.UpdateTaxRateRequest, actorID string) (*domain.TaxRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rate, err := s.taxRateRepo.FindTaxRateByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	if rate.RateType == domain.Percentage && req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: percentage rate must not be negative", apperrors.ErrValidation)
	}
	if rate.RateType == domain.Fixed && req.FixedAmount.IsNegative() {
		return nil, fmt.Errorf("%w: fixed amount must not be negative", apperrors.ErrValidation)
	}
	if req.EffectiveFrom != nil && req.EffectiveTo != nil && req.EffectiveTo.Before(*req.EffectiveFrom) {
		return nil, fmt.Errorf("%w: effective window ends before it starts", apperrors.ErrValidation)
	}

	rate.Name = req.Name
	rate.Rate = req.Rate
	rate.FixedAmount = req.FixedAmount
	rate.IsInclusive = req.IsInclusive
	if req.AppliesTo != "" {
		rate.AppliesTo = req.AppliesTo
	}
	rate.EffectiveFrom = req.EffectiveFrom
	rate.EffectiveTo = req.EffectiveTo
	rate.IsDefault = req.IsDefault
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}
	rate.LastUpdatedAt = time.Now().UTC()
	rate.LastUpdatedBy = actorID

	if err := s.taxRateRepo.UpdateTaxRate(ctx, *rate); err != nil {
		logger.Error("Failed to update tax rate", slog.String("error", err.Error()), slog.String("code", code))
		return nil, err
	}

	logger.Info("Tax rate updated", slog.String("rate_id", rate.RateID), slog.String("code", rate.Code))
	return rate, nil
}

// GetTaxRate resolves a rate by ID first, then by code, so clients can use
// either identifier on the read path.
func (s *taxRateService) GetTaxRate(ctx context.Context, tenantID, idOrCode string) (*domain.TaxRate, error) {
	rate, err := s.taxRateRepo.FindTaxRateByID(ctx, tenantID, idOrCode)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.taxRateRepo.FindTaxRateByCode(ctx, tenantID, idOrCode)
}

// ListTaxRates retrieves all active tax rates for a tenant.
func (s *taxRateService) ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error) {
	rates, err := s.taxRateRepo.ListTaxRates(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax rates: %w", err)
	}
	if rates == nil {
		return []domain.TaxRate{}, nil
	}
	return rates, nil
}

// Calculate computes tax and total for a subtotal. The effectiveness check is
// a query-time gate: it runs before any math, and the math itself never
// refuses a negative or zero subtotal.
func (s *taxRateService) Calculate(ctx context.Context, tenantID string, req dto.CalculateTaxRequest) (*dto.CalculateTaxResponse, error) {
	rate, err := s.taxRateRepo.FindTaxRateByCode(ctx, tenantID, req.RateCode)
	if err != nil {
		return nil, err
	}

	on := time.Now().UTC()
	if req.Date != nil {
		on = *req.Date
	}
	if !rate.IsEffective(on) {
		return nil, fmt.Errorf("%w: tax rate %s is not effective on %s", apperrors.ErrValidation, rate.Code, on.Format("2006-01-02"))
	}

	return &dto.CalculateTaxResponse{
		RateCode:  rate.Code,
		Subtotal:  req.Subtotal,
		TaxAmount: rate.TaxAmount(req.Subtotal),
		Total:     rate.TotalWithTax(req.Subtotal),
		Inclusive: rate.IsInclusive,
	}, nil
}

// resolveEffectiveRate looks up a rate by code and gates on its effective
// window; shared by the document services.
func resolveEffectiveRate(ctx context.Context, repo portsrepo.TaxRateReader, tenantID, code string, on time.Time) (*domain.TaxRate, error) {
	rate, err := repo.FindTaxRateByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if !rate.IsEffective(on) {
		return nil, fmt.Errorf("%w: tax rate %s is not effective on %s", apperrors.ErrValidation, code, on.Format("2006-01-02"))
	}
	return rate, nil
}
