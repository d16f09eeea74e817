package calculations

import (
	"errors"
	"fmt"

	"github.com/cloud-ru/emi-oracle-go/pkg/utils"
)

var (
	// ErrInvalidInput - сумма, ставка или срок вне области определения формулы
	ErrInvalidInput = errors.New("invalid input parameters for EMI calculation")

	// ErrComparisonUndefined - процентное отклонение от нуля не определено
	ErrComparisonUndefined = errors.New("comparison undefined")
)

func checkTerms(principal, annualRatePercent float64, tenureMonths int) error {
	switch {
	case !utils.IsFinite(principal) || principal <= 0:
		return fmt.Errorf("%w: principal must be positive, got %v", ErrInvalidInput, principal)
	case !utils.IsFinite(annualRatePercent) || annualRatePercent < 0:
		return fmt.Errorf("%w: annual rate must be non-negative, got %v", ErrInvalidInput, annualRatePercent)
	case tenureMonths <= 0:
		return fmt.Errorf("%w: tenure must be at least one month, got %d", ErrInvalidInput, tenureMonths)
	}
	return nil
}
