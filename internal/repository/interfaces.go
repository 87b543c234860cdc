// Package repository defines interfaces for data persistence
package repository

import (
	"context"

	"cotizadorapp/internal/domain"
)

// VehicleRepository defines the interface for vehicle record operations
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Vehicle, error)
}

// ProductFilter narrows an admin product search
type ProductFilter struct {
	Term        string
	Category    string
	Subcategory string
	Supplier    string
	Brand       string
}

// ProductRepository defines the interface for product catalog operations
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, filter ProductFilter, limit int) ([]domain.Product, error)
	BulkUpsert(ctx context.Context, products []domain.Product) (int, error)
	Count(ctx context.Context) (int, error)
}

// UserRepository defines the interface for admin user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
}

// AuditFilter narrows an audit log listing
type AuditFilter struct {
	Start     string
	End       string
	UserEmail string
	RecordID  int64
	Action    string
}

// AuditRepository defines the interface for the mutation audit log
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, filter AuditFilter, page, pageSize int) ([]domain.AuditEntry, int, error)
}

// SettingsRepository handles application variables such as the hourly
// labor rate and the tier access keys
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Repositories bundles all repository interfaces
type Repositories struct {
	Vehicles VehicleRepository
	Products ProductRepository
	Users    UserRepository
	Audit    AuditRepository
	Settings SettingsRepository
}
