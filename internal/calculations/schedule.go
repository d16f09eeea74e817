package calculations

import (
	"github.com/cloud-ru/emi-oracle-go/pkg/utils"
)

// GenerateAmortizationSchedule строит помесячный график погашения.
//
// Каждый месяц проценты округляются от остатка предыдущего месяца, поэтому
// к последнему платежу может накопиться погрешность округления. Остаток не
// подгоняется к нулю, отрицательный остаток обрезается до 0.
func GenerateAmortizationSchedule(principal, annualRatePercent float64, tenureMonths int) ([]AmortizationEntry, error) {
	emi, err := CalculateEMI(principal, annualRatePercent, tenureMonths)
	if err != nil {
		return nil, err
	}

	r := MonthlyRate(annualRatePercent)
	remaining := principal
	schedule := make([]AmortizationEntry, 0, tenureMonths)

	for m := 1; m <= tenureMonths; m++ {
		interest := utils.Round(remaining * r)
		principalComponent := emi - interest
		remaining = utils.Round(remaining - principalComponent)

		if remaining < 0 {
			remaining = 0.0
		}

		schedule = append(schedule, AmortizationEntry{
			Month:            m,
			EMI:              emi,
			PrincipalPaid:    principalComponent,
			InterestPaid:     interest,
			RemainingBalance: remaining,
		})
	}

	return schedule, nil
}

// Schedule строит график для проверенных параметров
func (t LoanTerms) Schedule() ([]AmortizationEntry, error) {
	return GenerateAmortizationSchedule(t.Principal, t.AnnualRatePercent, t.TenureMonths)
}
