// CotizadorAPP - Vehicle service quoting tool
// Optimized for shared hosting with limited resources
package main

import (
	"context"
	"log"
	"runtime"

	"cotizadorapp/internal/config"
	"cotizadorapp/internal/repository"
	"cotizadorapp/internal/repository/sqlite"
	"cotizadorapp/internal/server"
	"cotizadorapp/internal/store"
)

func main() {
	// Limit CPU usage for shared hosting
	runtime.GOMAXPROCS(1)

	// Load configuration
	cfg, err := config.Load("config.json")
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	log.Printf("🚗 Starting %s...", cfg.Business.Name)
	log.Printf("📋 Debug mode: %v", cfg.Debug)

	// Initialize database
	db, err := sqlite.New(cfg.GetDatabasePath())
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Database initialized")

	// Create admin user if none exists
	if err := createDefaultAdmin(db); err != nil {
		log.Printf("⚠️ Could not create default admin: %v", err)
	}

	// Initialize repositories
	repos := &repository.Repositories{
		Vehicles: sqlite.NewVehicleRepo(db),
		Products: sqlite.NewProductRepo(db),
		Users:    sqlite.NewUserRepo(db),
		Audit:    sqlite.NewAuditRepo(db),
		Settings: sqlite.NewSettingsRepo(db),
	}

	// Load the quoting snapshot. A failed initial load is not fatal:
	// the catalog may still be empty on first boot, and an admin can
	// import products and refresh afterwards.
	st := store.New(repos, cfg.Quoting.DefaultHourlyRate)
	if err := st.Refresh(context.Background()); err != nil {
		log.Printf("⚠️ Initial data load failed: %v", err)
	} else {
		snap := st.Snapshot()
		log.Printf("✅ Loaded %d vehicles and %d products", len(snap.Vehicles), len(snap.Products))
	}

	// Create and run the server
	srv := server.New(cfg, repos, st)

	log.Printf("🌐 Server listening on http://%s", cfg.Address())

	if err := srv.Run(); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}

// createDefaultAdmin creates a default admin user if no users exist
func createDefaultAdmin(db *sqlite.DB) error {
	// Check if any users exist
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		return nil // Users already exist
	}

	// Create default admin
	// Password: admin123 (CHANGE IN PRODUCTION!)
	hashedPassword, err := sqlite.HashPassword("admin123")
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, name, role)
		VALUES (?, ?, ?, ?)
	`, "admin@cotizadorapp.com", hashedPassword, "Administrador", "admin")

	if err != nil {
		return err
	}

	log.Println("✅ Default admin user created:")
	log.Println("   Email: admin@cotizadorapp.com")
	log.Println("   Password: admin123")
	log.Println("   ⚠️ CHANGE THIS PASSWORD IN PRODUCTION!")

	return nil
}
