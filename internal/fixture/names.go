package fixture

import (
	"fmt"
	"strings"

	"ilemit/internal/symbols"
)

var accessNames = map[string]symbols.Accessibility{}

var flagNames = map[string]symbols.Flags{}

func init() {
	for a := symbols.AccessPrivate; a <= symbols.AccessPublic; a++ {
		accessNames[a.String()] = a
	}
	for bit := 0; bit < 32; bit++ {
		f := symbols.Flags(1) << bit
		if names := f.Strings(); len(names) == 1 {
			flagNames[names[0]] = f
		}
	}
	// Set by the loader, never by hand.
	delete(flagNames, "primary")
}

var typeKinds = map[string]symbols.TypeKind{
	"":          symbols.TypeClass,
	"class":     symbols.TypeClass,
	"struct":    symbols.TypeStruct,
	"interface": symbols.TypeInterface,
	"enum":      symbols.TypeEnum,
	"delegate":  symbols.TypeDelegate,
}

var varianceNames = map[string]symbols.Variance{
	"":    symbols.VarianceNone,
	"out": symbols.VarianceOut,
	"in":  symbols.VarianceIn,
}

// specialNames doubles as the keyword aliases usable in type expressions.
var specialNames = map[string]symbols.SpecialType{
	"object":    symbols.SpecialObject,
	"void":      symbols.SpecialVoid,
	"bool":      symbols.SpecialBoolean,
	"char":      symbols.SpecialChar,
	"int8":      symbols.SpecialInt8,
	"uint8":     symbols.SpecialUInt8,
	"int16":     symbols.SpecialInt16,
	"uint16":    symbols.SpecialUInt16,
	"int32":     symbols.SpecialInt32,
	"uint32":    symbols.SpecialUInt32,
	"int64":     symbols.SpecialInt64,
	"uint64":    symbols.SpecialUInt64,
	"float32":   symbols.SpecialFloat32,
	"float64":   symbols.SpecialFloat64,
	"nint":      symbols.SpecialIntPtr,
	"nuint":     symbols.SpecialUIntPtr,
	"string":    symbols.SpecialString,
	"valuetype": symbols.SpecialValueType,
}

func parseAccess(s string, fallback symbols.Accessibility) (symbols.Accessibility, error) {
	if s == "" {
		return fallback, nil
	}
	a, ok := accessNames[strings.TrimSpace(s)]
	if !ok {
		return 0, fmt.Errorf("unknown access %q", s)
	}
	return a, nil
}

func parseFlags(names []string) (symbols.Flags, error) {
	var out symbols.Flags
	for _, n := range names {
		f, ok := flagNames[n]
		if !ok {
			return 0, fmt.Errorf("unknown flag %q", n)
		}
		out |= f
	}
	return out, nil
}

func parseTypeKind(s string) (symbols.TypeKind, error) {
	k, ok := typeKinds[s]
	if !ok {
		return 0, fmt.Errorf("unknown type kind %q", s)
	}
	return k, nil
}

func parseVariance(s string) (symbols.Variance, error) {
	v, ok := varianceNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown variance %q", s)
	}
	return v, nil
}

func parseSpecial(s string) (symbols.SpecialType, error) {
	if s == "" {
		return symbols.SpecialNone, nil
	}
	sp, ok := specialNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown special type %q", s)
	}
	return sp, nil
}
