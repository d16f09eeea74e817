package calculations

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

// Параметры в пределах диапазонов калькулятора по умолчанию
func drawPrincipal(t *rapid.T, label string) float64 {
	return float64(rapid.IntRange(10_000, 100_000_000).Draw(t, label))
}

func drawRate(t *rapid.T, label string) float64 {
	return float64(rapid.IntRange(10, 3000).Draw(t, label)) / 100
}

func drawTenure(t *rapid.T, label string) int {
	return rapid.IntRange(1, 360).Draw(t, label)
}

func TestProperty_EMIPositiveAndFinite(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := drawPrincipal(t, "principal")
		r := float64(rapid.IntRange(0, 3000).Draw(t, "rate_bps")) / 100
		n := drawTenure(t, "tenure")

		emi, err := CalculateEMI(p, r, n)
		if err != nil {
			t.Fatalf("CalculateEMI(%v, %v, %d) error: %v", p, r, n, err)
		}
		if emi <= 0 || math.IsInf(emi, 0) || math.IsNaN(emi) {
			t.Fatalf("CalculateEMI(%v, %v, %d) = %v, want positive finite", p, r, n, emi)
		}
		if emi != math.Trunc(emi) {
			t.Fatalf("EMI %v is not a whole amount", emi)
		}
	})
}

func TestProperty_EMIMonotonicInPrincipal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p1 := drawPrincipal(t, "p1")
		p2 := p1 + float64(rapid.IntRange(1, 1_000_000).Draw(t, "delta"))
		r := drawRate(t, "rate")
		n := drawTenure(t, "tenure")

		e1, _ := CalculateEMI(p1, r, n)
		e2, _ := CalculateEMI(p2, r, n)
		if e2 < e1 {
			t.Fatalf("EMI decreased with principal: %v -> %v (p %v -> %v)", e1, e2, p1, p2)
		}
	})
}

func TestProperty_EMIMonotonicInRate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := drawPrincipal(t, "principal")
		bps := rapid.IntRange(0, 2900).Draw(t, "rate_bps")
		r1 := float64(bps) / 100
		r2 := float64(bps+rapid.IntRange(1, 100).Draw(t, "delta_bps")) / 100
		n := drawTenure(t, "tenure")

		e1, _ := CalculateEMI(p, r1, n)
		e2, _ := CalculateEMI(p, r2, n)
		if e2 < e1 {
			t.Fatalf("EMI decreased with rate: %v -> %v (r %v -> %v)", e1, e2, r1, r2)
		}
	})
}

func TestProperty_EMIMonotonicInTenure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := drawPrincipal(t, "principal")
		r := drawRate(t, "rate")
		n1 := rapid.IntRange(1, 359).Draw(t, "n1")
		n2 := n1 + rapid.IntRange(1, 360-n1).Draw(t, "delta")

		e1, _ := CalculateEMI(p, r, n1)
		e2, _ := CalculateEMI(p, r, n2)
		if e2 > e1 {
			t.Fatalf("EMI increased with tenure: %v -> %v (n %d -> %d)", e1, e2, n1, n2)
		}
	})
}

func TestProperty_ZeroRateIsEqualSplit(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := drawPrincipal(t, "principal")
		n := drawTenure(t, "tenure")

		emi, err := CalculateEMI(p, 0, n)
		if err != nil {
			t.Fatal(err)
		}
		if emi != math.Round(p/float64(n)) {
			t.Fatalf("CalculateEMI(%v, 0, %d) = %v, want %v", p, n, emi, math.Round(p/float64(n)))
		}
	})
}

func TestProperty_TotalAmountIsExactProduct(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		emi := float64(rapid.IntRange(1, 10_000_000).Draw(t, "emi"))
		n := drawTenure(t, "tenure")

		total := CalculateTotalAmount(emi, n)
		if total != emi*float64(n) {
			t.Fatalf("CalculateTotalAmount(%v, %d) = %v, want %v", emi, n, total, emi*float64(n))
		}
		if total != math.Trunc(total) {
			t.Fatalf("total %v has a fractional part", total)
		}
	})
}

func TestProperty_ScheduleShape(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := drawPrincipal(t, "principal")
		r := float64(rapid.IntRange(0, 3000).Draw(t, "rate_bps")) / 100
		n := drawTenure(t, "tenure")

		schedule, err := GenerateAmortizationSchedule(p, r, n)
		if err != nil {
			t.Fatal(err)
		}
		if len(schedule) != n {
			t.Fatalf("schedule length %d, want %d", len(schedule), n)
		}

		prev := p
		var principalPaid float64
		for i, entry := range schedule {
			if entry.Month != i+1 {
				t.Fatalf("entry %d has month %d", i, entry.Month)
			}
			if entry.RemainingBalance < 0 {
				t.Fatalf("month %d: negative balance %v", entry.Month, entry.RemainingBalance)
			}
			if entry.PrincipalPaid+entry.InterestPaid != entry.EMI {
				t.Fatalf("month %d: %v + %v != %v", entry.Month, entry.PrincipalPaid, entry.InterestPaid, entry.EMI)
			}
			if entry.RemainingBalance > 0 && entry.RemainingBalance != prev-entry.PrincipalPaid {
				t.Fatalf("month %d: balance %v, want %v - %v", entry.Month, entry.RemainingBalance, prev, entry.PrincipalPaid)
			}
			prev = entry.RemainingBalance
			principalPaid += entry.PrincipalPaid
		}

		// погрешность округления платежа и процентов растет не быстрее
		// наращенной суммы аннуитета с платежом в одну единицу
		mr := MonthlyRate(r)
		bound := 2 * float64(n)
		if mr > 0 {
			bound = 2 * (math.Pow(1+mr, float64(n)) - 1) / mr
		}
		if drift := math.Abs(principalPaid - p); drift > bound {
			t.Fatalf("principal paid %v drifts %v from %v, bound %v", principalPaid, drift, p, bound)
		}
	})
}

func TestProperty_ValidateEMIReflexive(t *testing.T) {
	c := NewComparator(nil)
	rapid.Check(t, func(t *rapid.T) {
		x := float64(rapid.IntRange(1, 100_000_000).Draw(t, "x"))
		tol := rapid.Float64Range(0, 100).Draw(t, "tolerance")

		res, err := c.ValidateEMI(x, x, tol)
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsValid || res.Difference != 0 || res.DifferencePercent != 0 {
			t.Fatalf("ValidateEMI(%v, %v, %v) = %+v", x, x, tol, res)
		}
	})
}

func TestProperty_ValidateEMIZeroToleranceIsEquality(t *testing.T) {
	c := NewComparator(nil)
	rapid.Check(t, func(t *rapid.T) {
		x := float64(rapid.IntRange(-1_000_000, 1_000_000).Draw(t, "x"))
		y := float64(rapid.IntRange(1, 1_000_000).Draw(t, "y"))

		res, err := c.ValidateEMI(x, y, 0)
		if err != nil {
			t.Fatal(err)
		}
		if res.IsValid != (x == y) {
			t.Fatalf("ValidateEMI(%v, %v, 0).IsValid = %v", x, y, res.IsValid)
		}
	})
}
