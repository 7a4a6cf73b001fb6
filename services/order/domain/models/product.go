package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog view the order context needs: a name and the
// current tray price that gets snapshotted onto new items.
type Product struct {
	ID        uuid.UUID
	Name      string
	PriceTray decimal.Decimal
}
