package calculations

import (
	"math"

	"github.com/cloud-ru/emi-oracle-go/pkg/utils"
)

// MonthlyRate переводит годовую ставку в процентах в месячную ставку в долях
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / (12 * 100)
}

// CalculateEMI рассчитывает аннуитетный платеж, округленный до целой единицы.
//
//	EMI = P × r × (1+r)^n / ((1+r)^n − 1)
//
// При нулевой ставке платеж равен P / n.
func CalculateEMI(principal, annualRatePercent float64, tenureMonths int) (float64, error) {
	if err := checkTerms(principal, annualRatePercent, tenureMonths); err != nil {
		return 0, err
	}

	P := principal
	n := float64(tenureMonths)
	r := MonthlyRate(annualRatePercent)

	if r == 0.0 {
		return utils.Round(P / n), nil
	}

	growth := math.Pow(1.0+r, n)
	return utils.Round(P * r * growth / (growth - 1.0)), nil
}

// CalculateTotalAmount возвращает общую сумму выплат по округленному платежу
func CalculateTotalAmount(emi float64, tenureMonths int) float64 {
	return utils.Round(emi * float64(tenureMonths))
}

// CalculateTotalInterest возвращает переплату по процентам
func CalculateTotalInterest(emi float64, tenureMonths int, principal float64) float64 {
	return utils.Round(emi*float64(tenureMonths) - principal)
}

// Calculate считает платеж и итоговые суммы для проверенных параметров
func Calculate(terms LoanTerms) (EMIResult, error) {
	emi, err := CalculateEMI(terms.Principal, terms.AnnualRatePercent, terms.TenureMonths)
	if err != nil {
		return EMIResult{}, err
	}
	return EMIResult{
		EMI:           emi,
		TotalAmount:   CalculateTotalAmount(emi, terms.TenureMonths),
		TotalInterest: CalculateTotalInterest(emi, terms.TenureMonths, terms.Principal),
	}, nil
}
