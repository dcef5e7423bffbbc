package game

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	maxQuantity  = 20
	minSides     = 2
	defaultSides = 6
)

// Roll returns quantity independent uniform values in [1, sides].
// Callers are expected to pass clamped values (see ResolveDice).
func Roll(quantity, sides int) []int {
	out := make([]int, quantity)
	for i := range out {
		out[i] = rand.IntN(sides) + 1
	}
	return out
}

// DiceSpec is a dice request after wire-format resolution and clamping.
type DiceSpec struct {
	Type     string
	Quantity int
	Sides    int
	Notation string
}

// ResolveDice turns the client's dice fields into a concrete spec.
// "custom" with customSides > 1 uses customSides; any other type is
// parsed as "dN" (leading d/D stripped), falling back to d6. Quantity
// is clamped to [1, 20] and sides to >= 2.
func ResolveDice(diceType string, quantity, customSides int) DiceSpec {
	sides := defaultSides
	if diceType == "custom" && customSides > 1 {
		sides = customSides
	} else if n, err := strconv.Atoi(strings.TrimLeft(diceType, "dD")); err == nil {
		sides = n
	}

	if quantity < 1 {
		quantity = 1
	}
	if quantity > maxQuantity {
		quantity = maxQuantity
	}
	if sides < minSides {
		sides = minSides
	}

	return DiceSpec{
		Type:     diceType,
		Quantity: quantity,
		Sides:    sides,
		Notation: fmt.Sprintf("%dd%d", quantity, sides),
	}
}
