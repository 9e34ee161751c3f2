package model

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationWaiting   ReservationStatus = "waiting"
	ReservationReady     ReservationStatus = "ready"
	ReservationExpired   ReservationStatus = "expired"
	ReservationCancelled ReservationStatus = "cancelled"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationWaiting: {ReservationReady, ReservationCancelled},
	ReservationReady:   {ReservationExpired, ReservationCancelled},
}

func (s ReservationStatus) IsActive() bool {
	return s == ReservationWaiting || s == ReservationReady
}

// CanTransition reports whether a reservation may move from s to next.
// Terminal statuses have no outgoing edges.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	for _, to := range reservationTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID              int64             `json:"id" db:"id"`
	ReservationUid  uuid.UUID         `json:"reservationUid" db:"reservation_uid"`
	ItemCopyID      int64             `json:"itemCopyId" db:"item_copy_id"`
	PatronID        int64             `json:"patronId" db:"patron_id"`
	Status          ReservationStatus `json:"status" db:"status"`
	QueuePosition   int               `json:"queuePosition" db:"queue_position"`
	ReservationDate time.Time         `json:"reservationDate" db:"reservation_date"`
	ExpiryDate      *time.Time        `json:"expiryDate,omitempty" db:"expiry_date"`
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time         `json:"updatedAt" db:"updated_at"`
}

type CreateReservationRequest struct {
	ItemCopyID int64 `json:"itemCopyId" validate:"required,gt=0"`
	PatronID   int64 `json:"patronId" validate:"required,gt=0"`
}

type CheckinRequest struct {
	BranchID int64 `json:"branchId" validate:"gte=0"`
}

type QueueView struct {
	ItemCopyID   int64         `json:"itemCopyId"`
	CopyStatus   CopyStatus    `json:"copyStatus"`
	Reservations []Reservation `json:"reservations"`
}

type QueueStats struct {
	ByStatus       map[ReservationStatus]int `json:"byStatus"`
	ActiveQueues   int                       `json:"activeQueues"`
	AvgQueueLength float64                   `json:"avgQueueLength"`
	ExpiringSoon   int                       `json:"expiringSoon"`
}
