// Package store holds the in-memory data snapshot used for quoting.
// The snapshot is loaded wholesale from the repositories and swapped
// atomically; quote computation never observes a half-updated catalog.
package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"cotizadorapp/internal/domain"
	"cotizadorapp/internal/quote"
	"cotizadorapp/internal/repository"
)

// Snapshot is an immutable view of the quoting data
type Snapshot struct {
	Vehicles    []domain.Vehicle
	Products    []domain.Product
	Index       *quote.Index
	HourlyRate  float64
	WorkshopKey string
	CostKey     string
	LoadedAt    time.Time
}

// Store loads and serves snapshots
type Store struct {
	repos        *repository.Repositories
	fallbackRate float64

	mu   sync.RWMutex
	snap *Snapshot
}

// New creates a store over the repositories. fallbackRate is used when
// the hourly rate setting is absent or unreadable; pass 0 to make a
// missing rate a refresh error.
func New(repos *repository.Repositories, fallbackRate float64) *Store {
	return &Store{
		repos:        repos,
		fallbackRate: fallbackRate,
		snap:         &Snapshot{Index: quote.NewIndex(nil)},
	}
}

// Refresh re-reads all quoting data and swaps in a fresh snapshot
func (s *Store) Refresh(ctx context.Context) error {
	vehicles, err := s.repos.Vehicles.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vehicles: %w", err)
	}
	products, err := s.repos.Products.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	rate, err := s.loadHourlyRate(ctx)
	if err != nil {
		return err
	}
	workshopKey, err := s.repos.Settings.Get(ctx, domain.SettingWorkshopKey)
	if err != nil {
		return fmt.Errorf("failed to load workshop key: %w", err)
	}
	costKey, err := s.repos.Settings.Get(ctx, domain.SettingCostKey)
	if err != nil {
		return fmt.Errorf("failed to load cost key: %w", err)
	}

	snap := &Snapshot{
		Vehicles:    vehicles,
		Products:    products,
		Index:       quote.NewIndex(products),
		HourlyRate:  rate,
		WorkshopKey: workshopKey,
		CostKey:     costKey,
		LoadedAt:    time.Now(),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

// Snapshot returns the current snapshot. The returned value must be
// treated as read-only.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) loadHourlyRate(ctx context.Context) (float64, error) {
	raw, err := s.repos.Settings.Get(ctx, domain.SettingHourlyRate)
	if err != nil {
		return 0, fmt.Errorf("failed to load hourly rate: %w", err)
	}
	if raw == "" {
		if s.fallbackRate > 0 {
			return s.fallbackRate, nil
		}
		return 0, fmt.Errorf("setting %q not found and no fallback rate configured", domain.SettingHourlyRate)
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("setting %q is not a valid number: %w", domain.SettingHourlyRate, err)
	}
	return rate, nil
}

// FindVehicle returns the vehicle with the given id, or nil
func (snap *Snapshot) FindVehicle(id int64) *domain.Vehicle {
	for i := range snap.Vehicles {
		if snap.Vehicles[i].ID == id {
			return &snap.Vehicles[i]
		}
	}
	return nil
}

// SearchVehicles matches every whitespace-separated keyword against
// the vehicle's make, model, trim, engine code and year, capped at
// limit results. An empty query returns nothing.
func (snap *Snapshot) SearchVehicles(query string, limit int) []domain.Vehicle {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	keywords := strings.Fields(query)

	var out []domain.Vehicle
	for _, v := range snap.Vehicles {
		fields := []string{v.Make, v.Model, v.Trim, v.EngineCode}
		if v.Year > 0 {
			fields = append(fields, strconv.Itoa(v.Year))
		}
		text := strings.ToLower(strings.Join(fields, " "))
		matched := true
		for _, kw := range keywords {
			if !strings.Contains(text, kw) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, v)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}
