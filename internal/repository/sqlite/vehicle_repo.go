package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"cotizadorapp/internal/domain"
	"cotizadorapp/internal/repository"
)

// VehicleRepo implements repository.VehicleRepository
type VehicleRepo struct {
	db *DB
}

// NewVehicleRepo creates a new VehicleRepo
func NewVehicleRepo(db *DB) repository.VehicleRepository {
	return &VehicleRepo{db: db}
}

const vehicleColumns = `id, make, model, trim, year, engine_size, engine_code,
	oil_type, oil_viscosity, oil_liters, change_interval, oil_labor_minutes,
	oil_codes, oil_filter_codes, air_filter_codes, fuel_filter_codes, cabin_filter_codes,
	timing_kit_codes, tensioner_codes, roller_codes, water_pump_codes, belt_labor_minutes,
	combo_codes, notes`

func (r *VehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (make, model, trim, year, engine_size, engine_code,
			oil_type, oil_viscosity, oil_liters, change_interval, oil_labor_minutes,
			oil_codes, oil_filter_codes, air_filter_codes, fuel_filter_codes, cabin_filter_codes,
			timing_kit_codes, tensioner_codes, roller_codes, water_pump_codes, belt_labor_minutes,
			combo_codes, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		v.Make, v.Model, v.Trim, v.Year, v.EngineSize, v.EngineCode,
		v.OilType, v.OilViscosity, v.OilLiters, v.ChangeInterval, v.OilLaborMinutes,
		encodeCodes(v.OilCodes), encodeCodes(v.OilFilterCodes), encodeCodes(v.AirFilterCodes),
		encodeCodes(v.FuelFilterCodes), encodeCodes(v.CabinFilterCodes),
		encodeCodes(v.TimingKitCodes), encodeCodes(v.TensionerCodes), encodeCodes(v.RollerCodes),
		encodeCodes(v.WaterPumpCodes), v.BeltLaborMinutes,
		encodeCodes(v.ComboCodes), v.Notes)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get vehicle ID: %w", err)
	}
	v.ID = id
	return nil
}

func (r *VehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = ?`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return v, nil
}

func (r *VehicleRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `
		UPDATE vehicles SET make = ?, model = ?, trim = ?, year = ?, engine_size = ?, engine_code = ?,
			oil_type = ?, oil_viscosity = ?, oil_liters = ?, change_interval = ?, oil_labor_minutes = ?,
			oil_codes = ?, oil_filter_codes = ?, air_filter_codes = ?, fuel_filter_codes = ?, cabin_filter_codes = ?,
			timing_kit_codes = ?, tensioner_codes = ?, roller_codes = ?, water_pump_codes = ?, belt_labor_minutes = ?,
			combo_codes = ?, notes = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		v.Make, v.Model, v.Trim, v.Year, v.EngineSize, v.EngineCode,
		v.OilType, v.OilViscosity, v.OilLiters, v.ChangeInterval, v.OilLaborMinutes,
		encodeCodes(v.OilCodes), encodeCodes(v.OilFilterCodes), encodeCodes(v.AirFilterCodes),
		encodeCodes(v.FuelFilterCodes), encodeCodes(v.CabinFilterCodes),
		encodeCodes(v.TimingKitCodes), encodeCodes(v.TensionerCodes), encodeCodes(v.RollerCodes),
		encodeCodes(v.WaterPumpCodes), v.BeltLaborMinutes,
		encodeCodes(v.ComboCodes), v.Notes, v.ID)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	return nil
}

func (r *VehicleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	return nil
}

func (r *VehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY make, model, year`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	var (
		trim, engineSize, engineCode, oilType, oilViscosity, changeInterval, notes sql.NullString
		year                                                                      sql.NullInt64
		oilLiters, oilLabor, beltLabor                                            sql.NullFloat64
		oil, oilFilter, airFilter, fuelFilter, cabinFilter                        sql.NullString
		timingKit, tensioner, rollers, waterPump, combos                          sql.NullString
	)
	err := row.Scan(&v.ID, &v.Make, &v.Model, &trim, &year, &engineSize, &engineCode,
		&oilType, &oilViscosity, &oilLiters, &changeInterval, &oilLabor,
		&oil, &oilFilter, &airFilter, &fuelFilter, &cabinFilter,
		&timingKit, &tensioner, &rollers, &waterPump, &beltLabor,
		&combos, &notes)
	if err != nil {
		return nil, err
	}
	v.Trim = trim.String
	v.Year = int(year.Int64)
	v.EngineSize = engineSize.String
	v.EngineCode = engineCode.String
	v.OilType = oilType.String
	v.OilViscosity = oilViscosity.String
	v.OilLiters = oilLiters.Float64
	v.ChangeInterval = changeInterval.String
	v.OilLaborMinutes = oilLabor.Float64
	v.BeltLaborMinutes = beltLabor.Float64
	v.Notes = notes.String
	v.OilCodes = decodeCodes(oil.String)
	v.OilFilterCodes = decodeCodes(oilFilter.String)
	v.AirFilterCodes = decodeCodes(airFilter.String)
	v.FuelFilterCodes = decodeCodes(fuelFilter.String)
	v.CabinFilterCodes = decodeCodes(cabinFilter.String)
	v.TimingKitCodes = decodeCodes(timingKit.String)
	v.TensionerCodes = decodeCodes(tensioner.String)
	v.RollerCodes = decodeCodes(rollers.String)
	v.WaterPumpCodes = decodeCodes(waterPump.String)
	v.ComboCodes = decodeCodes(combos.String)
	return v, nil
}

// encodeCodes serializes a candidate code list as a JSON array, after
// dropping empty entries. Nil or empty lists are stored as NULL.
func encodeCodes(codes []string) any {
	cleaned := cleanCodes(codes)
	if len(cleaned) == 0 {
		return nil
	}
	data, err := json.Marshal(cleaned)
	if err != nil {
		return nil
	}
	return string(data)
}

// decodeCodes restores a candidate code list from its stored form.
// Besides JSON arrays it accepts the legacy formats still found in
// imported data: "A / B" separated strings and bare single codes.
func decodeCodes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var codes []string
		if err := json.Unmarshal([]byte(raw), &codes); err == nil {
			return cleanCodes(codes)
		}
	}
	if strings.Contains(raw, " / ") {
		return cleanCodes(strings.Split(raw, " / "))
	}
	return cleanCodes([]string{raw})
}

func cleanCodes(codes []string) []string {
	var out []string
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
