package quote

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// looseEpsilon suppresses near-zero floating remainders from being
// quoted as loose oil.
const looseEpsilon = 0.01

// Allocation is a container packing plan for the required oil volume
type Allocation struct {
	Cost            float64
	Label           string
	FullContainers  int
	ContainerVolume float64
	LooseLiters     float64
}

// Allocate computes the container packing plan for the required liters
// given the chosen product's container volume and unit price. Below one
// container the policy buys exactly one (never a fraction); above it,
// whole containers plus the excess priced per liter.
func Allocate(requiredLiters, containerVolume, containerPrice float64) Allocation {
	if requiredLiters <= 0 || containerVolume <= 0 {
		return Allocation{
			Cost:            containerPrice,
			Label:           "1 envase",
			FullContainers:  1,
			ContainerVolume: containerVolume,
		}
	}

	if requiredLiters <= containerVolume {
		leftover := containerVolume - requiredLiters
		return Allocation{
			Cost:            containerPrice,
			Label:           fmt.Sprintf("1 x %sL (Sobra %sL)", formatLiters(containerVolume), formatLiters(leftover)),
			FullContainers:  1,
			ContainerVolume: containerVolume,
		}
	}

	full := int(math.Floor(requiredLiters / containerVolume))
	loose := math.Mod(requiredLiters, containerVolume)
	cost := float64(full) * containerPrice

	parts := []string{fmt.Sprintf("%d x %sL", full, formatLiters(containerVolume))}
	if loose > looseEpsilon {
		cost += loose * (containerPrice / containerVolume)
		parts = append(parts, fmt.Sprintf("%.2fL suelto", loose))
	} else {
		loose = 0
	}

	return Allocation{
		Cost:            cost,
		Label:           strings.Join(parts, " + "),
		FullContainers:  full,
		ContainerVolume: containerVolume,
		LooseLiters:     loose,
	}
}

// AllocateRoundUp is the legacy packing policy: round the requirement
// up to whole containers, never pricing loose liters. Kept for
// re-displaying quotes computed before the loose-excess policy.
func AllocateRoundUp(requiredLiters, containerVolume, containerPrice float64) Allocation {
	if containerVolume <= 0 {
		return Allocation{ContainerVolume: containerVolume, Label: "0 envases"}
	}
	needed := int(math.Ceil(requiredLiters / containerVolume))
	if needed < 0 {
		needed = 0
	}
	return Allocation{
		Cost:            float64(needed) * containerPrice,
		Label:           fmt.Sprintf("%d x %sL", needed, formatLiters(containerVolume)),
		FullContainers:  needed,
		ContainerVolume: containerVolume,
	}
}

// formatLiters renders a volume without a trailing ".00" when integral
func formatLiters(v float64) string {
	r := math.Round(v*100) / 100
	if r == math.Trunc(r) {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
