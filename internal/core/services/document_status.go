package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
)

// docTransitions is the review lifecycle shared by invoices and expenses.
// POSTED is deliberately absent as a target: only posting sets it.
var docTransitions = map[domain.DocumentStatus][]domain.DocumentStatus{
	domain.DocDraft:     {domain.DocSubmitted},
	domain.DocSubmitted: {domain.DocApproved, domain.DocRejected},
}

// validateDocTransition checks one step of the review lifecycle.
func validateDocTransition(current, target domain.DocumentStatus) error {
	if target == domain.DocPosted {
		return fmt.Errorf("%w: POSTED is set by posting, not by status update", apperrors.ErrValidation)
	}
	for _, allowed := range docTransitions[current] {
		if allowed == target {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot move document from %s to %s", apperrors.ErrConflict, current, target)
}

// resolveDefaultRateFor finds the tenant's default tax rate for a scope,
// falling back to the "all" scope. No default at all is not an error; the
// document simply carries no tax.
func resolveDefaultRateFor(ctx context.Context, repo portsrepo.TaxRateReader, tenantID, appliesTo string, on time.Time) (*domain.TaxRate, error) {
	rate, err := repo.FindDefaultTaxRate(ctx, tenantID, appliesTo)
	if errors.Is(err, apperrors.ErrNotFound) {
		rate, err = repo.FindDefaultTaxRate(ctx, tenantID, "all")
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !rate.IsEffective(on) {
		return nil, nil
	}
	return rate, nil
}
