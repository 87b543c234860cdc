package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"cotizadorapp/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestVehicleRepoRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewVehicleRepo(db)
	ctx := context.Background()

	v := &domain.Vehicle{
		Make:            "Chevrolet",
		Model:           "Corsa",
		Trim:            "Classic",
		Year:            2010,
		EngineCode:      "C14NE",
		OilViscosity:    "10W40",
		OilLiters:       3.5,
		OilLaborMinutes: 30,
		OilCodes:        []string{"OIL1", "OIL2"},
		OilFilterCodes:  []string{"F100"},
		ComboCodes:      []string{"KIT1"},
	}
	if err := repo.Create(ctx, v); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if v.ID == 0 {
		t.Fatalf("Create did not assign an ID")
	}

	got, err := repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil {
		t.Fatalf("GetByID returned nil for existing vehicle")
	}
	if !reflect.DeepEqual(got, v) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, v)
	}

	got.Model = "Corsa II"
	got.OilCodes = []string{"OIL3"}
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	updated, err := repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByID after update failed: %v", err)
	}
	if updated.Model != "Corsa II" || !reflect.DeepEqual(updated.OilCodes, []string{"OIL3"}) {
		t.Fatalf("update not persisted: %+v", updated)
	}

	if err := repo.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	gone, err := repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByID after delete failed: %v", err)
	}
	if gone != nil {
		t.Fatalf("vehicle still present after delete: %+v", gone)
	}
}

func TestVehicleRepoGetMissing(t *testing.T) {
	db := testDB(t)
	repo := NewVehicleRepo(db)

	v, err := repo.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil for missing vehicle, got %+v", v)
	}
}

func TestVehicleRepoLegacyCodeFormats(t *testing.T) {
	db := testDB(t)
	repo := NewVehicleRepo(db)
	ctx := context.Background()

	// Rows imported from the old spreadsheet carry codes as plain
	// strings, sometimes "A / B" separated, instead of JSON arrays.
	res, err := db.Exec(`
		INSERT INTO vehicles (make, model, oil_codes, oil_filter_codes)
		VALUES (?, ?, ?, ?)
	`, "Ford", "Fiesta", "OIL1 / OIL2", "F100")
	if err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}
	id, _ := res.LastInsertId()

	v, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !reflect.DeepEqual(v.OilCodes, []string{"OIL1", "OIL2"}) {
		t.Fatalf("legacy separated codes = %v", v.OilCodes)
	}
	if !reflect.DeepEqual(v.OilFilterCodes, []string{"F100"}) {
		t.Fatalf("legacy bare code = %v", v.OilFilterCodes)
	}
}

func TestDecodeCodes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "json array", raw: `["A","B"]`, want: []string{"A", "B"}},
		{name: "legacy separated", raw: "A / B", want: []string{"A", "B"}},
		{name: "bare code", raw: "A", want: []string{"A"}},
		{name: "empty", raw: "", want: nil},
		{name: "whitespace only", raw: "   ", want: nil},
		{name: "json with blank entries", raw: `["A","","  "]`, want: []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeCodes(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("decodeCodes(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
