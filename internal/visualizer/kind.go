package visualizer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a strategy name or value is not recognised.
var ErrUnknownKind = errors.New("visualizer: unknown strategy")

// Kind identifies a rendering strategy. It is the single source of truth for
// how a strategy is rebuilt on resize and whether it accepts pointer input.
type Kind int

const (
	KindBars Kind = iota
	KindWave
	KindCircular
	KindConstellation
	KindSynaptic
	KindRainbowSquare
	KindQuantumRipple
)

var kindNames = [...]string{
	KindBars:          "bars",
	KindWave:          "wave",
	KindCircular:      "circular",
	KindConstellation: "constellation",
	KindSynaptic:      "synaptic",
	KindRainbowSquare: "rainbowSquare",
	KindQuantumRipple: "quantumRipple",
}

var kindTitles = [...]string{
	KindBars:          "Bars",
	KindWave:          "Wave",
	KindCircular:      "Circular",
	KindConstellation: "Constellation",
	KindSynaptic:      "Synaptic Network",
	KindRainbowSquare: "Rainbow Square",
	KindQuantumRipple: "Quantum Ripple",
}

// Kinds returns every strategy in selector order.
func Kinds() []Kind {
	return []Kind{KindBars, KindWave, KindCircular, KindConstellation, KindSynaptic, KindRainbowSquare, KindQuantumRipple}
}

// Valid reports whether k is one of the known strategies.
func (k Kind) Valid() bool {
	return k >= KindBars && k <= KindQuantumRipple
}

// String returns the selector identifier, e.g. "rainbowSquare".
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Title is the human readable name shown in the status line.
func (k Kind) Title() string {
	if !k.Valid() {
		return k.String()
	}
	return kindTitles[k]
}

// Stateful reports whether the strategy keeps simulation state between frames.
func (k Kind) Stateful() bool {
	switch k {
	case KindConstellation, KindSynaptic, KindRainbowSquare, KindQuantumRipple:
		return true
	}
	return false
}

// Interactive reports whether pointer input is forwarded to the strategy.
func (k Kind) Interactive() bool {
	return k == KindSynaptic
}

// Next cycles forward through Kinds, wrapping around.
func (k Kind) Next() Kind {
	if !k.Valid() {
		return KindBars
	}
	return (k + 1) % Kind(len(kindNames))
}

// Prev cycles backward through Kinds, wrapping around.
func (k Kind) Prev() Kind {
	if !k.Valid() {
		return KindBars
	}
	return (k + Kind(len(kindNames)) - 1) % Kind(len(kindNames))
}

// ParseKind accepts selector identifiers case-insensitively, with or without
// separators ("rainbowSquare", "rainbow-square", "rainbow_square").
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	for i, name := range kindNames {
		if strings.ToLower(name) == norm {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
