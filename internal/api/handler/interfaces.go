package handler

import (
	"context"

	"github.com/sanosuguru/go-coworking-reservation/internal/application"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, id string) (*reservation.Reservation, error)
	GetUserReservations(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error)
	ConfirmReservation(ctx context.Context, id, actorID string) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, id, requesterID string) (*reservation.Reservation, error)
	CompleteExpired(ctx context.Context) (int, error)
}

// AvailabilityServiceInterface は空き確認サービスのインターフェース
type AvailabilityServiceInterface interface {
	CheckAvailabilityCached(ctx context.Context, input application.CheckAvailabilityInput) (*reservation.Availability, error)
}

// SpaceServiceInterface はスペースサービスのインターフェース
type SpaceServiceInterface interface {
	CreateSpace(ctx context.Context, input application.CreateSpaceInput) (*coworking.Space, error)
	GetSpace(ctx context.Context, id string) (*coworking.Space, error)
	ApproveSpace(ctx context.Context, id string) (*coworking.Space, error)
	RejectSpace(ctx context.Context, id string) (*coworking.Space, error)
}

// AreaServiceInterface はエリアサービスのインターフェース
type AreaServiceInterface interface {
	CreateArea(ctx context.Context, input application.CreateAreaInput) (*area.Area, error)
	UpdateArea(ctx context.Context, input application.UpdateAreaInput) (*area.Area, error)
	ListAreas(ctx context.Context, spaceID string) ([]*area.Area, error)
}
