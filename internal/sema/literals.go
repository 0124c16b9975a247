package sema

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sosodev/duration"
	"golang.org/x/text/unicode/norm"

	"plexilc/internal/ast"
	"plexilc/internal/diag"
	"plexilc/internal/syntax"
	"plexilc/internal/types"
)

// Internal value sets, by literal tag.
var internalValues = map[syntax.Tag][]string{
	syntax.TagNodeStateValue: {
		"INACTIVE", "WAITING", "EXECUTING", "ITERATION_ENDED", "FINISHED", "FAILING", "FINISHING",
	},
	syntax.TagNodeOutcomeValue: {
		"SUCCESS", "FAILURE", "SKIPPED", "INTERRUPTED",
	},
	syntax.TagNodeFailureValue: {
		"PRE_CONDITION_FAILED", "POST_CONDITION_FAILED", "INVARIANT_CONDITION_FAILED",
		"PARENT_FAILED", "EXITED", "PARENT_EXITED",
	},
	syntax.TagCommandHandleValue: {
		"COMMAND_SENT_TO_SYSTEM", "COMMAND_ACCEPTED", "COMMAND_RCVD_BY_SYSTEM", "COMMAND_FAILED",
		"COMMAND_DENIED", "COMMAND_SUCCESS", "COMMAND_ABORTED", "COMMAND_ABORT_FAILED",
		"COMMAND_INTERFACE_ERROR",
	},
}

var internalTypes = map[syntax.Tag]types.Type{
	syntax.TagNodeStateValue:     types.NodeState,
	syntax.TagNodeOutcomeValue:   types.NodeOutcome,
	syntax.TagNodeFailureValue:   types.NodeFailure,
	syntax.TagCommandHandleValue: types.CommandHandle,
}

// InternalValues returns the legal spellings for an internal literal tag.
func InternalValues(tag syntax.Tag) []string { return internalValues[tag] }

func (u *Unit) bindLiteral(id ast.NodeID) {
	n := u.node(id)
	switch n.Kind {
	case ast.KindIntLiteral:
		n.Type = types.Integer
		v, err := ParseInteger(n.Text, n.Tag == syntax.TagNegInt)
		if err != nil {
			u.errorf(diag.LitBadInteger, id, "Integer literal %q is not valid: %v", n.Text, err)
			n.LitValue = n.Text
			return
		}
		n.LitValue = strconv.FormatInt(v, 10)
	case ast.KindRealLiteral:
		n.Type = types.Real
		v, err := ParseReal(n.Text, n.Tag == syntax.TagNegDouble)
		if err != nil {
			u.errorf(diag.LitBadReal, id, "Real literal %q is not valid: %v", n.Text, err)
		}
		n.LitValue = v
	case ast.KindBoolLiteral:
		n.Type = types.Boolean
		n.LitValue = "false"
		if n.Tag == syntax.TagTrue {
			n.LitValue = "true"
		}
	case ast.KindStringLiteral:
		n.Type = types.String
		s, err := UnquoteString(n.Text)
		if err != nil {
			u.errorf(diag.LitBadString, id, "%v in string literal %s", err, n.Text)
		}
		n.LitValue = s
	case ast.KindDateLiteral, ast.KindDurationLiteral:
		u.bindTemporal(id)
	case ast.KindInternalLiteral:
		n.Type = internalTypes[n.Tag]
		n.LitValue = n.Text
		for _, v := range internalValues[n.Tag] {
			if v == n.Text {
				return
			}
		}
		u.errorf(diag.LitBadInternal, id, "%q is not a valid %s value", n.Text, n.Type)
	}
}

func (u *Unit) bindTemporal(id ast.NodeID) {
	n := u.node(id)
	n.Type = types.Date
	if n.Kind == ast.KindDurationLiteral {
		n.Type = types.Duration
	}
	if !u.need(id, 1) {
		return
	}
	str := n.Children[0]
	u.bind(str, n.Scope)
	value := u.node(str).LitValue
	n.LitValue = value
	if n.Kind == ast.KindDateLiteral {
		if _, err := ParseDate(value); err != nil {
			u.errorf(diag.LitBadDate, id, "Date literal %q is not a valid ISO 8601 date", value)
		}
		return
	}
	if _, err := duration.Parse(value); err != nil {
		u.errorf(diag.LitBadDuration, id, "Duration literal %q is not a valid ISO 8601 duration", value)
	}
}

// ParseInteger parses a 32-bit Integer literal with an optional 0b, 0o or 0x
// radix prefix. neg forces a negative value when the text carries no sign.
func ParseInteger(text string, neg bool) (int64, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	base := 10
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'b', 'B':
			base, s = 2, s[2:]
		case 'o', 'O':
			base, s = 8, s[2:]
		case 'x', 'X':
			base, s = 16, s[2:]
		}
	}
	if s == "" {
		return 0, errors.New("no digits")
	}
	if neg {
		s = "-" + s
	}
	v, err := strconv.ParseInt(s, base, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	return v, nil
}

// ParseReal validates a Real literal and returns its canonical text.
func ParseReal(text string, neg bool) (string, error) {
	s := strings.TrimSpace(text)
	if neg && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return s, errors.New("malformed number")
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return s, errors.New("value out of range")
	}
	return s, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts ISO 8601 calendar dates with an optional time and zone.
func ParseDate(s string) (time.Time, error) {
	var last error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		last = err
	}
	return time.Time{}, last
}

var (
	errBadUnicode = errors.New("Invalid Unicode escape format")
	errBadHex     = errors.New("Invalid hex escape format")
)

// UnquoteString strips matching quotes and resolves escape sequences.
// The result is NFC-normalised.
func UnquoteString(raw string) (string, error) {
	s := raw
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	if !strings.ContainsRune(s, '\\') {
		return norm.NFC.String(s), nil
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			// three digits only when the first is 0-3
			limit := 2
			if e <= '3' {
				limit = 3
			}
			j := i
			for j < len(s) && j-i < limit && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			sb.WriteRune(rune(v))
			i = j - 1
		case 'x':
			j := i + 1
			for j < len(s) && j-i-1 < 2 && isHex(s[j]) {
				j++
			}
			if j == i+1 {
				return "", errBadHex
			}
			v, _ := strconv.ParseUint(s[i+1:j], 16, 32)
			sb.WriteRune(rune(v))
			i = j - 1
		case 'u', 'U':
			width := 4
			if e == 'U' {
				width = 8
			}
			if i+width >= len(s) {
				return "", errBadUnicode
			}
			digits := s[i+1 : i+1+width]
			for k := 0; k < width; k++ {
				if !isHex(digits[k]) {
					return "", errBadUnicode
				}
			}
			v, _ := strconv.ParseUint(digits, 16, 32)
			if !utf8.ValidRune(rune(v)) {
				return "", errBadUnicode
			}
			sb.WriteRune(rune(v))
			i += width
		default:
			sb.WriteByte(e)
		}
	}
	return norm.NFC.String(sb.String()), nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
