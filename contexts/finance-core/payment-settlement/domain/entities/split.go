package entities

import (
	"math"
	"strings"

	domainerrors "solutionshub/contexts/finance-core/payment-settlement/domain/errors"
)

// Percentages are entered by hand upstream, so tolerate sub-cent drift
// before rejecting a policy as defective.
const policySumTolerance = 0.01

type SplitLine struct {
	RecipientType RecipientType
	RecipientID   string
	Percentage    float64
}

// SplitPolicy is the percentage breakdown applied to a settled payment,
// resolved from the payment's funding context.
type SplitPolicy struct {
	Lines []SplitLine
}

func (p SplitPolicy) Validate() error {
	if len(p.Lines) == 0 {
		return domainerrors.ErrEmptySplitPolicy
	}
	total := 0.0
	for _, line := range p.Lines {
		if !validRecipientType(line.RecipientType) || strings.TrimSpace(line.RecipientID) == "" {
			return domainerrors.ErrInvalidSplitLine
		}
		if line.Percentage <= 0 {
			return domainerrors.ErrInvalidSplitLine
		}
		total += line.Percentage
	}
	if math.Abs(total-100) > policySumTolerance {
		return domainerrors.ErrPolicyPercentageSum
	}
	return nil
}

// ShareAmounts computes each line's share of total, rounded to cents.
// Any rounding remainder lands on the last line so the shares always sum
// back to total exactly.
func (p SplitPolicy) ShareAmounts(total float64) []float64 {
	amounts := make([]float64, len(p.Lines))
	allocated := 0.0
	for i, line := range p.Lines {
		amounts[i] = round2(total * line.Percentage / 100)
		allocated = round2(allocated + amounts[i])
	}
	if len(amounts) > 0 {
		amounts[len(amounts)-1] = round2(amounts[len(amounts)-1] + total - allocated)
	}
	return amounts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
