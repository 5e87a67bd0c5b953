package types

import (
	"encoding/json"
	"fmt"
)

// Flags is the raw attribute bitset of an entity or accessor as read from
// metadata. Flags are inputs to the classifier and never rendered directly.
type Flags uint32

const (
	FlagStatic Flags = 1 << iota
	FlagAbstract
	FlagVirtual
	FlagFinal
	FlagNewSlot
	FlagPInvoke
	FlagLiteral
	FlagInitOnly
	FlagVolatile
	FlagHidesBase
	FlagReadonly
	FlagExternalInit
	FlagCompilerGenerated
	FlagByRefLike
	FlagSealed
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagStatic, "static"},
	{FlagAbstract, "abstract"},
	{FlagVirtual, "virtual"},
	{FlagFinal, "final"},
	{FlagNewSlot, "new_slot"},
	{FlagPInvoke, "pinvoke"},
	{FlagLiteral, "literal"},
	{FlagInitOnly, "init_only"},
	{FlagVolatile, "volatile"},
	{FlagHidesBase, "hides_base"},
	{FlagReadonly, "readonly"},
	{FlagExternalInit, "external_init"},
	{FlagCompilerGenerated, "compiler_generated"},
	{FlagByRefLike, "by_ref_like"},
	{FlagSealed, "sealed"},
}

// Has reports whether every bit of f2 is set in f
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Names returns the flag names in bit order
func (f Flags) Names() []string {
	names := []string{}
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// ParseFlag looks up a flag by name
func ParseFlag(name string) (Flags, error) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown flag %q", name)
}

// MarshalJSON encodes the set as a list of flag names
func (f Flags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

// UnmarshalJSON decodes a list of flag names
func (f *Flags) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("flags must be a list of names: %w", err)
	}

	var out Flags
	for _, name := range names {
		flag, err := ParseFlag(name)
		if err != nil {
			return err
		}
		out |= flag
	}
	*f = out
	return nil
}
