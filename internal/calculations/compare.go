package calculations

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cloud-ru/emi-oracle-go/internal/logger"
	"github.com/cloud-ru/emi-oracle-go/pkg/utils"
)

// DefaultTolerancePercent - допустимое отклонение по умолчанию, в процентах
const DefaultTolerancePercent = 0.1

// Comparator сравнивает значения со страницы с ожидаемыми значениями оракула.
// Не хранит состояния, кроме логгера, и безопасен для параллельных тестов.
type Comparator struct {
	log *zap.Logger
}

// NewComparator создает Comparator. nil логгер заменяется на no-op.
func NewComparator(log *zap.Logger) *Comparator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Comparator{log: log}
}

// ValidateEMI сравнивает платеж с ожидаемым и пишет результат в лог
func (c *Comparator) ValidateEMI(observed, expected, tolerancePercent float64) (ValidationResult, error) {
	result, err := compare(observed, expected, tolerancePercent)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("validate EMI: %w", err)
	}

	if !result.IsValid {
		c.log.Warn("EMI validation failed",
			zap.Float64("calculated", observed),
			zap.Float64("expected", expected),
			zap.Float64("difference", result.Difference),
			zap.String("difference_percent", fmt.Sprintf("%.2f%%", result.DifferencePercent)),
		)
	} else {
		logger.Step(c.log, "EMI validation passed",
			zap.Float64("calculated", observed),
			zap.Float64("expected", expected),
		)
	}

	return result, nil
}

// ValidateInterest сравнивает сумму процентов
func (c *Comparator) ValidateInterest(observed, expected, tolerancePercent float64) (bool, error) {
	result, err := compare(observed, expected, tolerancePercent)
	if err != nil {
		return false, fmt.Errorf("validate interest: %w", err)
	}
	return result.IsValid, nil
}

// ValidateTotalAmount сравнивает общую сумму выплат
func (c *Comparator) ValidateTotalAmount(observed, expected, tolerancePercent float64) (bool, error) {
	result, err := compare(observed, expected, tolerancePercent)
	if err != nil {
		return false, fmt.Errorf("validate total amount: %w", err)
	}
	return result.IsValid, nil
}

func compare(observed, expected, tolerancePercent float64) (ValidationResult, error) {
	if !utils.IsFinite(observed) || !utils.IsFinite(expected) {
		return ValidationResult{}, fmt.Errorf("%w: non-finite value (observed %v, expected %v)",
			ErrComparisonUndefined, observed, expected)
	}
	if expected == 0 {
		return ValidationResult{}, fmt.Errorf("%w: expected value is zero", ErrComparisonUndefined)
	}

	difference := math.Abs(observed - expected)
	differencePercent := difference / math.Abs(expected) * 100

	return ValidationResult{
		IsValid:           differencePercent <= tolerancePercent,
		Difference:        difference,
		DifferencePercent: differencePercent,
	}, nil
}
