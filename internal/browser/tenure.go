package browser

// TenureField - поле срока на странице калькулятора
type TenureField int

const (
	// TenureYears - поле срока в годах
	TenureYears TenureField = iota
	// TenureMonths - поле срока в месяцах
	TenureMonths
)

func (f TenureField) String() string {
	if f == TenureYears {
		return "years"
	}
	return "months"
}

// SplitTenure выбирает, в какое поле вводить срок. За раз заполняется одно
// поле: целое число лет идет в поле лет, иначе весь срок вводится в месяцах.
func SplitTenure(months int) (TenureField, int) {
	years, rest := months/12, months%12
	if years > 0 && rest == 0 {
		return TenureYears, years
	}
	return TenureMonths, months
}
