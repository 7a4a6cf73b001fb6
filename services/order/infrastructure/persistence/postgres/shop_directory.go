package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/boreksan/trayorders/pkg/database"
	orderdomain "github.com/boreksan/trayorders/services/order/domain"
	"github.com/boreksan/trayorders/services/order/domain/models"
	"github.com/boreksan/trayorders/services/order/infrastructure/persistence/postgres/db"
)

// ShopDirectory implements repositories.ShopDirectory over the shops table.
type ShopDirectory struct {
	db *database.Database
}

func NewShopDirectory(database *database.Database) *ShopDirectory {
	return &ShopDirectory{db: database}
}

func (d *ShopDirectory) GetByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	row, err := db.New(d.db.Conn(ctx)).GetShopByID(ctx, id)
	if err != nil {
		return nil, shopErr(err, id.String())
	}
	return rowToShop(row)
}

// FindByDisplayName returns the oldest shop with the given display name.
// Display names are not unique.
func (d *ShopDirectory) FindByDisplayName(ctx context.Context, name string) (*models.Shop, error) {
	row, err := db.New(d.db.Conn(ctx)).GetShopByDisplayName(ctx, name)
	if err != nil {
		return nil, shopErr(err, name)
	}
	return rowToShop(row)
}

func (d *ShopDirectory) FindByAccountName(ctx context.Context, name string) (*models.Shop, error) {
	row, err := db.New(d.db.Conn(ctx)).GetShopByAccountName(ctx, name)
	if err != nil {
		return nil, shopErr(err, name)
	}
	return rowToShop(row)
}

func shopErr(err error, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("shop %q: %w", key, orderdomain.ErrShopNotFound)
	}
	return fmt.Errorf("query shop: %w", err)
}

func rowToShop(row db.Shop) (*models.Shop, error) {
	role, err := models.ParseRole(row.Role)
	if err != nil {
		return nil, fmt.Errorf("shop %s: %w", row.ID, err)
	}
	return &models.Shop{
		ID:          row.ID,
		AccountName: row.AccountName,
		DisplayName: row.DisplayName,
		Role:        role,
		Phone:       row.Phone,
		Address:     row.Address,
	}, nil
}
