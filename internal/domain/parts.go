package domain

// PartKey identifies a service part field of a vehicle record. Keys are
// stable and match the vehicle columns they represent.
type PartKey string

const (
	PartOil         PartKey = "aceite"
	PartOilFilter   PartKey = "filtro_aceite"
	PartAirFilter   PartKey = "filtro_aire"
	PartFuelFilter  PartKey = "filtro_combustible"
	PartCabinFilter PartKey = "filtro_habitaculo"

	PartTimingKit PartKey = "correa"
	PartTensioner PartKey = "tensor"
	PartRollers   PartKey = "rodillos"
	PartWaterPump PartKey = "bomba"

	PartLaborOil  PartKey = "mano_obra_aceite"
	PartLaborBelt PartKey = "mano_obra_correa"
	PartCombo     PartKey = "combo"
)

// PartLabel returns the Spanish display label for a part key
func PartLabel(key PartKey) string {
	labels := map[PartKey]string{
		PartOil:         "Aceite",
		PartOilFilter:   "Filtro de Aceite",
		PartAirFilter:   "Filtro de Aire",
		PartFuelFilter:  "Filtro de Combustible",
		PartCabinFilter: "Filtro de Habitáculo",
		PartTimingKit:   "Kit Distribución",
		PartTensioner:   "Tensor",
		PartRollers:     "Rodillos",
		PartWaterPump:   "Bomba de Agua",
		PartLaborOil:    "Mano de Obra (Aceite)",
		PartLaborBelt:   "Mano de Obra (Correa)",
		PartCombo:       "Combo",
	}
	if label, ok := labels[key]; ok {
		return label
	}
	return string(key)
}

// IsFilter reports whether a key is one of the individual filter lines
// that a combo kit substitutes for.
func (k PartKey) IsFilter() bool {
	switch k {
	case PartOilFilter, PartAirFilter, PartFuelFilter, PartCabinFilter:
		return true
	}
	return false
}
