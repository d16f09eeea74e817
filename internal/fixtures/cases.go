// Package fixtures содержит наборы входных данных для проверок калькулятора.
package fixtures

import "github.com/cloud-ru/emi-oracle-go/internal/calculations"

// Case - один набор параметров кредита
type Case struct {
	Name      string  `json:"name"`
	Principal float64 `json:"principal"`
	Rate      float64 `json:"rate"`
	Tenure    int     `json:"tenure"`
}

// Terms проверяет параметры и возвращает их как LoanTerms
func (c Case) Terms() (calculations.LoanTerms, error) {
	return calculations.NewLoanTerms(c.Principal, c.Rate, c.Tenure)
}

// ValidCases - типичные кредиты
func ValidCases() []Case {
	return []Case{
		{Name: "home loan", Principal: 1_000_000, Rate: 8.5, Tenure: 120},
		{Name: "car loan", Principal: 500_000, Rate: 9.5, Tenure: 60},
		{Name: "personal loan", Principal: 200_000, Rate: 12, Tenure: 36},
		{Name: "education loan", Principal: 750_000, Rate: 10.5, Tenure: 84},
		{Name: "long home loan", Principal: 5_000_000, Rate: 7.5, Tenure: 240},
		{Name: "short loan", Principal: 100_000, Rate: 11, Tenure: 18},
	}
}

// EdgeCases - значения на границах допустимых диапазонов
func EdgeCases() []Case {
	return []Case{
		{Name: "minimum principal", Principal: 10_000, Rate: 10, Tenure: 12},
		{Name: "maximum principal", Principal: 100_000_000, Rate: 8.5, Tenure: 360},
		{Name: "minimum rate", Principal: 1_000_000, Rate: 0.1, Tenure: 120},
		{Name: "maximum rate", Principal: 1_000_000, Rate: 30, Tenure: 120},
		{Name: "one month", Principal: 100_000, Rate: 12, Tenure: 1},
		{Name: "thirty years", Principal: 1_000_000, Rate: 8.5, Tenure: 360},
	}
}

// NegativeCases - недопустимые параметры
func NegativeCases() []Case {
	return []Case{
		{Name: "zero principal", Principal: 0, Rate: 10, Tenure: 12},
		{Name: "negative principal", Principal: -100_000, Rate: 10, Tenure: 12},
		{Name: "principal below minimum", Principal: 5_000, Rate: 10, Tenure: 12},
		{Name: "very large principal", Principal: 999_999_999_999, Rate: 10, Tenure: 12},
		{Name: "zero rate", Principal: 100_000, Rate: 0, Tenure: 12},
		{Name: "negative rate", Principal: 100_000, Rate: -5, Tenure: 12},
		{Name: "very large rate", Principal: 100_000, Rate: 99_999, Tenure: 12},
		{Name: "zero tenure", Principal: 100_000, Rate: 10, Tenure: 0},
		{Name: "negative tenure", Principal: 100_000, Rate: 10, Tenure: -12},
		{Name: "very large tenure", Principal: 100_000, Rate: 10, Tenure: 1_000},
	}
}

// DecimalRateCases - ставки с дробной частью
func DecimalRateCases() []Case {
	return []Case{
		{Name: "8.25%", Principal: 1_000_000, Rate: 8.25, Tenure: 120},
		{Name: "8.75%", Principal: 1_000_000, Rate: 8.75, Tenure: 120},
		{Name: "8.125%", Principal: 1_000_000, Rate: 8.125, Tenure: 120},
	}
}

// Tenures - сроки для 1 000 000 под 8.5%
var Tenures = []int{12, 24, 36, 60, 120, 180, 240, 300, 360}

// Principals - суммы для 8.5% на 120 месяцев
var Principals = []float64{100_000, 500_000, 1_000_000, 2_500_000, 5_000_000, 10_000_000}

// Rates - ставки для 1 000 000 на 120 месяцев
var Rates = []float64{6.5, 7.0, 7.5, 8.0, 8.5, 9.0, 9.5, 10.0, 11.0, 12.0}

// Sweep разворачивает Tenures, Principals и Rates в отдельные случаи
func Sweep() []Case {
	var cases []Case
	for _, n := range Tenures {
		cases = append(cases, Case{Name: "tenure sweep", Principal: 1_000_000, Rate: 8.5, Tenure: n})
	}
	for _, p := range Principals {
		cases = append(cases, Case{Name: "principal sweep", Principal: p, Rate: 8.5, Tenure: 120})
	}
	for _, r := range Rates {
		cases = append(cases, Case{Name: "rate sweep", Principal: 1_000_000, Rate: r, Tenure: 120})
	}
	return cases
}
