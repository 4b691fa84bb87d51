package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"gocpd/domain/core"
)

// Parse converts a model expression such as "Normal(?, 2.5)" into a Spec.
//
// Grammar:
//
//	expr   := family [ "(" args ")" ]
//	family := letter { letter | digit | "_" }
//	args   := "" | arg { "," arg }
//	arg    := "?" | number
//
// Family matching is case-insensitive and the family is stored lowercase.
// "?" marks a parameter as changing across segments; a number fixes it.
// A family without a parameter list is equivalent to an empty list.
func Parse(input string) (Spec, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Spec{}, core.NewSyntaxError("empty model expression")
	}

	name := s
	rest := ""
	if open := strings.IndexByte(s, '('); open >= 0 {
		name = strings.TrimSpace(s[:open])
		rest = s[open:]
	}
	if name == "" {
		return Spec{}, core.NewSyntaxError("missing distribution family before '('")
	}
	if !validFamilyName(name) {
		return Spec{}, core.NewSyntaxError(fmt.Sprintf("invalid family name %q", name))
	}

	spec := Spec{Family: Family(strings.ToLower(name))}
	if rest == "" {
		return spec, nil
	}

	closing := strings.LastIndexByte(rest, ')')
	if closing < 0 {
		return Spec{}, core.NewSyntaxError("missing closing ')'")
	}
	if tail := strings.TrimSpace(rest[closing+1:]); tail != "" {
		return Spec{}, core.NewSyntaxError(fmt.Sprintf("unexpected text %q after ')'", tail))
	}

	inner := strings.TrimSpace(rest[1:closing])
	if strings.ContainsAny(inner, "()") {
		return Spec{}, core.NewSyntaxError("nested parentheses are not allowed")
	}
	if inner == "" {
		return spec, nil
	}

	for _, raw := range strings.Split(inner, ",") {
		arg := strings.TrimSpace(raw)
		if arg == "" {
			return Spec{}, core.NewSyntaxError("empty parameter slot")
		}
		if arg == "?" {
			spec.Params = append(spec.Params, Changing())
			continue
		}
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return Spec{}, core.NewSyntaxError(fmt.Sprintf("parameter %q is neither a number nor '?'", arg))
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Spec{}, core.NewSyntaxError(fmt.Sprintf("parameter %q must be finite", arg))
		}
		spec.Params = append(spec.Params, Fixed(v))
	}

	return spec, nil
}

// MustParse parses an expression and panics on failure. Intended for
// tests and compiled-in defaults.
func MustParse(input string) Spec {
	spec, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return spec
}

func validFamilyName(name string) bool {
	for i, r := range name {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return true
}
