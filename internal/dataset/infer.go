package dataset

import (
	"strconv"
	"time"
)

// missingTokens are the raw values read as missing, matching what common
// spreadsheet and dataframe tooling treats as NA.
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"02-Jan-2006",
	time.RFC3339,
}

// IsMissingToken reports whether a raw value is read as missing.
func IsMissingToken(value string) bool {
	_, ok := missingTokens[value]
	return ok
}

// ParseCell tags a raw value with its primitive kind.
func ParseCell(value string) Cell {
	if IsMissingToken(value) {
		return Cell{Kind: KindMissing, Raw: value}
	}

	if len(value) < 20 && isInt(value) {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return Cell{Kind: KindInteger, Raw: value, Num: float64(n), Int: n}
		}
	}

	if len(value) < 25 && isFloat(value) {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return Cell{Kind: KindFloat, Raw: value, Num: f}
		}
	}

	switch value {
	case "true", "True", "TRUE":
		return Cell{Kind: KindBoolean, Raw: value, Bool: true}
	case "false", "False", "FALSE":
		return Cell{Kind: KindBoolean, Raw: value, Bool: false}
	}

	if isDate(value) {
		return Cell{Kind: KindDate, Raw: value}
	}

	return Cell{Kind: KindText, Raw: value}
}

// isInt quickly checks if a string is an optionally signed run of digits
func isInt(str string) bool {
	if len(str) == 0 {
		return false
	}

	i := 0
	if str[0] == '-' || str[0] == '+' {
		if len(str) == 1 {
			return false
		}
		i = 1
	}

	for ; i < len(str); i++ {
		c := str[i]
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// isFloat checks for a decimal or exponent number; "inf" and "nan" words
// stay text.
func isFloat(str string) bool {
	if len(str) == 0 {
		return false
	}

	hasDot := false
	hasExp := false
	hasDigit := false
	i := 0

	if str[0] == '-' || str[0] == '+' {
		if len(str) == 1 {
			return false
		}
		i = 1
	}

	for ; i < len(str); i++ {
		c := str[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '.':
			if hasDot || hasExp {
				return false
			}
			hasDot = true
		case c == 'e' || c == 'E':
			if hasExp || !hasDigit || i == len(str)-1 {
				return false
			}
			hasExp = true
			if next := str[i+1]; next == '-' || next == '+' {
				if i+2 == len(str) {
					return false
				}
				i++
			}
		default:
			return false
		}
	}
	return hasDigit && (hasDot || hasExp)
}

func isDate(value string) bool {
	for _, format := range dateFormats {
		if _, err := time.Parse(format, value); err == nil {
			return true
		}
	}
	return false
}
