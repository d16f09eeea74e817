package validators

import (
	"fmt"
	"strconv"

	"github.com/cloud-ru/emi-oracle-go/pkg/utils"
)

// Bounds задает допустимые диапазоны полей калькулятора (границы включительно)
type Bounds struct {
	MinPrincipal float64 `json:"min_principal"`
	MaxPrincipal float64 `json:"max_principal"`
	MinRate      float64 `json:"min_rate"`
	MaxRate      float64 `json:"max_rate"`
	MinTenure    int     `json:"min_tenure"`
	MaxTenure    int     `json:"max_tenure"`
}

// DefaultBounds возвращает диапазоны, которые принимает калькулятор
func DefaultBounds() Bounds {
	return Bounds{
		MinPrincipal: 10000,
		MaxPrincipal: 100000000,
		MinRate:      0.1,
		MaxRate:      30,
		MinTenure:    1,
		MaxTenure:    360,
	}
}

// BoundsOption задает одну границу. Не заданные границы берутся из DefaultBounds.
type BoundsOption func(*Bounds)

// WithMinPrincipal задает минимальную сумму
func WithMinPrincipal(v float64) BoundsOption { return func(b *Bounds) { b.MinPrincipal = v } }

// WithMaxPrincipal задает максимальную сумму
func WithMaxPrincipal(v float64) BoundsOption { return func(b *Bounds) { b.MaxPrincipal = v } }

// WithMinRate задает минимальную ставку; 0 допускает беспроцентный кредит
func WithMinRate(v float64) BoundsOption { return func(b *Bounds) { b.MinRate = v } }

// WithMaxRate задает максимальную ставку
func WithMaxRate(v float64) BoundsOption { return func(b *Bounds) { b.MaxRate = v } }

// WithMinTenure задает минимальный срок в месяцах
func WithMinTenure(v int) BoundsOption { return func(b *Bounds) { b.MinTenure = v } }

// WithMaxTenure задает максимальный срок в месяцах
func WithMaxTenure(v int) BoundsOption { return func(b *Bounds) { b.MaxTenure = v } }

// WithBounds задает все шесть границ сразу, нулевые значения тоже
func WithBounds(bounds Bounds) BoundsOption { return func(b *Bounds) { *b = bounds } }

// NewBounds применяет опции поверх DefaultBounds
func NewBounds(opts ...BoundsOption) Bounds {
	b := DefaultBounds()
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Check проверяет, что каждая граница не больше соответствующего максимума
func (b Bounds) Check() error {
	if b.MinPrincipal > b.MaxPrincipal {
		return fmt.Errorf("principal bounds inverted: %v > %v", b.MinPrincipal, b.MaxPrincipal)
	}
	if b.MinRate > b.MaxRate {
		return fmt.Errorf("rate bounds inverted: %v > %v", b.MinRate, b.MaxRate)
	}
	if b.MinTenure > b.MaxTenure {
		return fmt.Errorf("tenure bounds inverted: %d > %d", b.MinTenure, b.MaxTenure)
	}
	return nil
}

// RangeValidationResult содержит все нарушения диапазонов в порядке
// principal, rate, tenure
type RangeValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ValidateInputRanges проверяет сумму, ставку и срок независимо друг от друга.
// Для каждого поля вне диапазона добавляется одно сообщение.
// Без опций используются DefaultBounds.
func ValidateInputRanges(principal, rate float64, tenure int, opts ...BoundsOption) RangeValidationResult {
	bounds := NewBounds(opts...)
	messages := make([]string, 0, 3)

	if err := ValidatePositiveNumber("Principal", principal, bounds.MinPrincipal, bounds.MaxPrincipal); err != nil {
		messages = append(messages, fmt.Sprintf("Principal must be between %s and %s",
			formatNumber(bounds.MinPrincipal), formatNumber(bounds.MaxPrincipal)))
	}

	if err := ValidatePositiveNumber("Rate", rate, bounds.MinRate, bounds.MaxRate); err != nil {
		messages = append(messages, fmt.Sprintf("Rate must be between %s%% and %s%%",
			formatNumber(bounds.MinRate), formatNumber(bounds.MaxRate)))
	}

	if err := ValidateIntRange("Tenure", tenure, bounds.MinTenure, bounds.MaxTenure); err != nil {
		messages = append(messages, fmt.Sprintf("Tenure must be between %d and %d months",
			bounds.MinTenure, bounds.MaxTenure))
	}

	return RangeValidationResult{
		IsValid: len(messages) == 0,
		Errors:  messages,
	}
}

// ValidatePositiveNumber проверяет, что число конечное и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: value is not a finite number", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: value must be ≥ %s", name, formatNumber(minInclusive))
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: value is too large (>%s)", name, formatNumber(maxInclusive))
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: value must be in range [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
