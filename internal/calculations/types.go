package calculations

import (
	"fmt"

	"github.com/cloud-ru/emi-oracle-go/pkg/utils"
)

// LoanTerms описывает параметры кредита. Создается только через NewLoanTerms.
type LoanTerms struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TenureMonths      int     `json:"tenure_months"`
}

// NewLoanTerms проверяет параметры и возвращает LoanTerms
func NewLoanTerms(principal, annualRatePercent float64, tenureMonths int) (LoanTerms, error) {
	if err := checkTerms(principal, annualRatePercent, tenureMonths); err != nil {
		return LoanTerms{}, err
	}
	return LoanTerms{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TenureMonths:      tenureMonths,
	}, nil
}

// MonthlyRate возвращает месячную ставку в долях
func (t LoanTerms) MonthlyRate() float64 {
	return MonthlyRate(t.AnnualRatePercent)
}

func (t LoanTerms) String() string {
	return fmt.Sprintf("%s @ %g%% for %d months", utils.FormatINR(t.Principal), t.AnnualRatePercent, t.TenureMonths)
}

// EMIResult содержит ежемесячный платеж и производные суммы
type EMIResult struct {
	EMI           float64 `json:"emi"`
	TotalAmount   float64 `json:"total_amount"`
	TotalInterest float64 `json:"total_interest"`
}

// AmortizationEntry представляет одну запись в графике платежей
type AmortizationEntry struct {
	Month            int     `json:"month"`
	EMI              float64 `json:"emi"`
	PrincipalPaid    float64 `json:"principal_paid"`
	InterestPaid     float64 `json:"interest_paid"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// ValidationResult - результат сравнения наблюдаемого значения с ожидаемым
type ValidationResult struct {
	IsValid           bool    `json:"is_valid"`
	Difference        float64 `json:"difference"`
	DifferencePercent float64 `json:"difference_percent"`
}
