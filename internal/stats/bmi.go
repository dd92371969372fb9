package stats

import "math"

const (
	CategoryUnderweight = "Bajo peso"
	CategoryNormal      = "Peso normal"
	CategoryOverweight  = "Sobrepeso"
	CategoryObese       = "Obesidad"
)

type BMIResult struct {
	Value    float64 `json:"bmi"`
	Category string  `json:"category"`
}

// BMI computes weight / (height in metres)^2 rounded to one decimal. The
// category is taken from the unrounded value. Non-positive or non-finite
// measurements yield ErrBMIUnavailable.
func BMI(weightKg, heightCm float64) (BMIResult, error) {
	if !positiveFinite(weightKg) || !positiveFinite(heightCm) {
		return BMIResult{}, ErrBMIUnavailable
	}

	m := heightCm / 100
	bmi := weightKg / (m * m)
	// tiny heights overflow the quotient
	if math.IsInf(bmi, 0) {
		return BMIResult{}, ErrBMIUnavailable
	}

	return BMIResult{Value: round1(bmi), Category: BMICategory(bmi)}, nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return CategoryUnderweight
	case bmi < 25:
		return CategoryNormal
	case bmi < 30:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
