package lib

import (
	"encoding/json"
	"strings"
)

// PairKind enumerates the pool variants
type PairKind string

const (
	PairKindXyk    PairKind = "xyk"    // constant product
	PairKindStable PairKind = "stable" // stable swap
	PairKindCustom PairKind = "custom" // named custom curve

	customPrefix = "custom-"
)

// PairType is the variant tag of a pool, rendered as 'xyk', 'stable' or 'custom-<name>'
type PairType struct {
	Kind   PairKind
	Custom string
}

var (
	PairTypeXyk    = PairType{Kind: PairKindXyk}
	PairTypeStable = PairType{Kind: PairKindStable}
)

// NewCustomPairType() returns the tag of a named custom pool variant
func NewCustomPairType(name string) PairType { return PairType{Kind: PairKindCustom, Custom: name} }

// ParsePairType() converts the display form back into a PairType
func ParsePairType(s string) (PairType, ErrorI) {
	switch {
	case s == string(PairKindXyk):
		return PairTypeXyk, nil
	case s == string(PairKindStable):
		return PairTypeStable, nil
	case strings.HasPrefix(s, customPrefix) && len(s) > len(customPrefix):
		return NewCustomPairType(strings.TrimPrefix(s, customPrefix)), nil
	default:
		return PairType{}, ErrInvalidPairType(s)
	}
}

// String() returns the display form
func (p PairType) String() string {
	if p.Kind == PairKindCustom {
		return customPrefix + p.Custom
	}
	return string(p.Kind)
}

// Validate() ensures the tag is one of the known variants
func (p PairType) Validate() ErrorI {
	_, err := ParsePairType(p.String())
	return err
}

func (p PairType) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

func (p *PairType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParsePairType(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p PairType) MarshalYAML() (any, error) { return p.String(), nil }

func (p *PairType) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParsePairType(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
