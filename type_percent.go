package cryptofolio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Percent is a ratio expressed in percent (12.5 means 12.5%).
type Percent float64

// percentOf returns num / den * 100. A zero denominator is replaced by 1, so
// that an asset with no recorded cost reports its pnl as a plain amount.
func percentOf(num, den Money) Percent {
	d := den.value
	if d.IsZero() {
		d = decimal.NewFromInt(1)
	}
	return Percent(num.value.Div(d).Mul(decimal.NewFromInt(100)).InexactFloat64())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}

// MarshalJSON writes the percent as a "12.34%" string.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON reads either a "12.34%" string or a plain number.
func (p *Percent) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSuffix(strings.TrimSpace(unquoted), "%")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid percent %s: %w", string(b), err)
	}
	*p = Percent(f)
	return nil
}
