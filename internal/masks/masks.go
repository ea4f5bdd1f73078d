// Package masks formats the free-typed values of the back-office forms
// (CNPJ, IBGE code, earmark number, bank data, money) the way the
// validation rules expect them.
package masks

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

func digits(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == max {
				break
			}
		}
	}
	return b.String()
}

// MaskCnpj turns up to 14 digits into 00.000.000/0000-00, formatting
// partial input as far as it goes.
func MaskCnpj(value string) string {
	n := digits(value, 14)
	switch {
	case len(n) <= 2:
		return n
	case len(n) <= 5:
		return n[:2] + "." + n[2:]
	case len(n) <= 8:
		return n[:2] + "." + n[2:5] + "." + n[5:]
	case len(n) <= 12:
		return n[:2] + "." + n[2:5] + "." + n[5:8] + "/" + n[8:]
	}
	return n[:2] + "." + n[2:5] + "." + n[5:8] + "/" + n[8:12] + "-" + n[12:]
}

func MaskCodigoIbge(value string) string {
	return digits(value, 7)
}

// MaskNumeroEmenda keeps up to 8 digits and puts the last four after a
// slash: "8472024" becomes "847/2024".
func MaskNumeroEmenda(value string) string {
	n := digits(value, 8)
	if len(n) <= 3 {
		return n
	}
	return n[:len(n)-4] + "/" + n[len(n)-4:]
}

func alnumX(value string, max int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(value) {
		if (r >= '0' && r <= '9') || r == 'X' {
			b.WriteRune(r)
			if b.Len() == max {
				break
			}
		}
	}
	return b.String()
}

// MaskAgencia formats a branch as 0000-0 (the check digit may be X).
func MaskAgencia(value string) string {
	s := alnumX(value, 5)
	if len(s) <= 4 {
		return s
	}
	return s[:4] + "-" + s[4:]
}

// MaskConta formats an account number with a dash before its check digit.
func MaskConta(value string) string {
	s := alnumX(value, 12)
	if len(s) <= 1 {
		return s
	}
	return s[:len(s)-1] + "-" + s[len(s)-1:]
}

// UnmaskCurrency reads the digits of a masked amount as cents.
func UnmaskCurrency(value string) float64 {
	n := digits(value, 18)
	if n == "" {
		return 0
	}
	cents, err := strconv.ParseInt(n, 10, 64)
	if err != nil {
		return 0
	}
	return float64(cents) / 100
}

// FormatNumber renders v with two decimals using pt-BR separators.
func FormatNumber(v float64) string {
	return printer.Sprint(number.Decimal(v, number.Scale(2)))
}

// FormatCurrency renders v as Brazilian reais, e.g. "R$ 1.500.000,00".
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-R$ " + FormatNumber(-v)
	}
	return "R$ " + FormatNumber(v)
}

// FormatDate renders an ISO date (or RFC 3339 timestamp) as dd/mm/yyyy.
// Unparseable input is returned unchanged.
func FormatDate(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return value
}
