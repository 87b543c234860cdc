// Package domain defines core business entities
package domain

// Product represents a catalog entry from the product list
type Product struct {
	Code          string   `json:"code"`
	Description   string   `json:"description"`
	Brand         string   `json:"brand,omitempty"`
	Supplier      string   `json:"supplier,omitempty"`
	Category      string   `json:"category,omitempty"`
	Subcategory   string   `json:"subcategory,omitempty"`
	PublicPrice   float64  `json:"publicPrice"`
	WorkshopPrice *float64 `json:"workshopPrice,omitempty"`
	CostPrice     *float64 `json:"costPrice,omitempty"`
}

// Vehicle represents a service record for a vehicle
type Vehicle struct {
	ID         int64  `json:"id"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Trim       string `json:"trim,omitempty"`
	Year       int    `json:"year,omitempty"`
	EngineSize string `json:"engineSize,omitempty"`
	EngineCode string `json:"engineCode,omitempty"`

	// Oil service attributes
	OilType         string  `json:"oilType,omitempty"`
	OilViscosity    string  `json:"oilViscosity,omitempty"`
	OilLiters       float64 `json:"oilLiters,omitempty"`
	ChangeInterval  string  `json:"changeInterval,omitempty"`
	OilLaborMinutes float64 `json:"oilLaborMinutes,omitempty"`

	// Candidate part codes. Each field is nil or a non-empty list of
	// trimmed, non-empty strings; legacy single-string values are split
	// at the repository boundary.
	OilCodes         []string `json:"oilCodes,omitempty"`
	OilFilterCodes   []string `json:"oilFilterCodes,omitempty"`
	AirFilterCodes   []string `json:"airFilterCodes,omitempty"`
	FuelFilterCodes  []string `json:"fuelFilterCodes,omitempty"`
	CabinFilterCodes []string `json:"cabinFilterCodes,omitempty"`

	// Belt service
	TimingKitCodes   []string `json:"timingKitCodes,omitempty"`
	TensionerCodes   []string `json:"tensionerCodes,omitempty"`
	RollerCodes      []string `json:"rollerCodes,omitempty"`
	WaterPumpCodes   []string `json:"waterPumpCodes,omitempty"`
	BeltLaborMinutes float64  `json:"beltLaborMinutes,omitempty"`

	ComboCodes []string `json:"comboCodes,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// CanQuoteBelt reports whether the belt service applies to this vehicle
func (v *Vehicle) CanQuoteBelt() bool {
	return v.BeltLaborMinutes > 0
}

// CodesFor returns the candidate codes declared for a part key
func (v *Vehicle) CodesFor(key PartKey) []string {
	switch key {
	case PartOil:
		return v.OilCodes
	case PartOilFilter:
		return v.OilFilterCodes
	case PartAirFilter:
		return v.AirFilterCodes
	case PartFuelFilter:
		return v.FuelFilterCodes
	case PartCabinFilter:
		return v.CabinFilterCodes
	case PartTimingKit:
		return v.TimingKitCodes
	case PartTensioner:
		return v.TensionerCodes
	case PartRollers:
		return v.RollerCodes
	case PartWaterPump:
		return v.WaterPumpCodes
	}
	return nil
}

// PriceTier selects which price field of a product is authoritative
type PriceTier string

const (
	TierPublic   PriceTier = "publico"
	TierWorkshop PriceTier = "taller"
	TierCost     PriceTier = "costo"
)

// ParseTier maps a request value to a tier, defaulting to public
func ParseTier(s string) PriceTier {
	switch PriceTier(s) {
	case TierWorkshop, TierCost:
		return PriceTier(s)
	}
	return TierPublic
}

// TierLabel returns a human-readable label for a price tier
func TierLabel(t PriceTier) string {
	labels := map[PriceTier]string{
		TierPublic:   "Público",
		TierWorkshop: "Taller",
		TierCost:     "Costo",
	}
	if label, ok := labels[t]; ok {
		return label
	}
	return string(t)
}

// ServiceType identifies which service is being quoted
type ServiceType string

const (
	ServiceOil  ServiceType = "oil"
	ServiceBelt ServiceType = "belt"
)

// QuoteLineItem is one priced, labeled, issue-flagged row of a quote
type QuoteLineItem struct {
	Key             PartKey   `json:"key"`
	Label           string    `json:"label"`
	Detail          string    `json:"detail,omitempty"`
	Alternatives    []Product `json:"alternatives,omitempty"`
	SelectedCode    string    `json:"selectedCode,omitempty"`
	UnresolvedCodes []string  `json:"unresolvedCodes,omitempty"`
	Cost            float64   `json:"cost"`
	HasIssue        bool      `json:"hasIssue"`
	IncludedInTotal bool      `json:"includedInTotal"`
}

// BreakdownRow is one user-facing row of quantities and codes to purchase
type BreakdownRow struct {
	Label    string `json:"label"`
	Code     string `json:"code"`
	Quantity string `json:"quantity"`
}

// Quote is the full computed result for one vehicle, service and tier
type Quote struct {
	VehicleID      int64           `json:"vehicleId"`
	Service        ServiceType     `json:"service"`
	Tier           PriceTier       `json:"tier"`
	Items          []QuoteLineItem `json:"items"`
	Labor          QuoteLineItem   `json:"labor"`
	Combo          *QuoteLineItem  `json:"combo,omitempty"`
	Total          float64         `json:"total"`
	HasMissingData bool            `json:"hasMissingData"`
	Breakdown      []BreakdownRow  `json:"breakdown"`
	ShareText      string          `json:"shareText"`
}

// User represents an admin panel user
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

// AuditEntry records an admin-side mutation of a vehicle record
type AuditEntry struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	UserEmail string `json:"userEmail"`
	Action    string `json:"action"`
	RecordID  int64  `json:"recordId"`
	Detail    string `json:"detail,omitempty"`
}

// User roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Audit actions
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
)

// Settings keys read from the variables table
const (
	SettingHourlyRate  = "precio-hora"
	SettingWorkshopKey = "clave_taller"
	SettingCostKey     = "clave_costo"
)
