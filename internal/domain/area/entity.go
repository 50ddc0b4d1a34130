package area

import (
	"time"

	"github.com/shopspring/decimal"
)

// Area はスペース内の予約可能な区画（デスク、個室など）を表す
type Area struct {
	ID          string
	SpaceID     string
	Name        string
	Type        string
	Capacity    int
	PricePerDay decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewArea は新しいエリアを作成する
func NewArea(spaceID, name, areaType string, capacity int, pricePerDay decimal.Decimal, now time.Time) *Area {
	return &Area{
		SpaceID:     spaceID,
		Name:        name,
		Type:        areaType,
		Capacity:    capacity,
		PricePerDay: pricePerDay,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// BelongsTo はエリアが指定スペースに属するかを返す
func (a *Area) BelongsTo(spaceID string) bool {
	return a.SpaceID == spaceID
}

// Validate はエリアの検証を行う
func (a *Area) Validate() error {
	if a.SpaceID == "" {
		return ErrSpaceIDRequired
	}
	if a.Name == "" {
		return ErrAreaNameRequired
	}
	if a.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if a.PricePerDay.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}
