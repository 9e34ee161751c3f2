package model

import (
	"time"

	"github.com/google/uuid"
)

type EmailType string

const (
	EmailOverdueReminder      EmailType = "overdue_reminder"
	EmailReservationReady     EmailType = "reservation_ready"
	EmailDueDateReminder      EmailType = "due_date_reminder"
	EmailCheckoutReceipt      EmailType = "checkout_receipt"
	EmailCheckinReceipt       EmailType = "checkin_receipt"
	EmailReservationExpired   EmailType = "reservation_expired"
	EmailReservationCancelled EmailType = "reservation_cancelled"
	EmailFineNotice           EmailType = "fine_notice"
)

var EmailTypes = []EmailType{
	EmailOverdueReminder,
	EmailReservationReady,
	EmailDueDateReminder,
	EmailCheckoutReceipt,
	EmailCheckinReceipt,
	EmailReservationExpired,
	EmailReservationCancelled,
	EmailFineNotice,
}

func (t EmailType) Valid() bool {
	for _, et := range EmailTypes {
		if et == t {
			return true
		}
	}
	return false
}

type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "pending"
	NotificationSent      NotificationStatus = "sent"
	NotificationFailed    NotificationStatus = "failed"
	NotificationCancelled NotificationStatus = "cancelled"
)

const (
	DefaultMaxRetries = 3
	DefaultPriority   = 5

	PriorityHigh   = 3
	PriorityNormal = 5
)

type Notification struct {
	ID               uuid.UUID          `json:"id" db:"id"`
	PatronID         int64              `json:"patronId" db:"patron_id"`
	EmailType        EmailType          `json:"emailType" db:"email_type"`
	RecipientAddress string             `json:"recipientAddress" db:"recipient_address"`
	Subject          string             `json:"subject" db:"subject"`
	BodyText         string             `json:"bodyText" db:"body_text"`
	BodyHTML         string             `json:"bodyHtml" db:"body_html"`
	Status           NotificationStatus `json:"status" db:"status"`
	Priority         int                `json:"priority" db:"priority"`
	ScheduledFor     time.Time          `json:"scheduledFor" db:"scheduled_for"`
	RetryCount       int                `json:"retryCount" db:"retry_count"`
	MaxRetries       int                `json:"maxRetries" db:"max_retries"`
	ErrorMessage     *string            `json:"errorMessage,omitempty" db:"error_message"`
	SentAt           *time.Time         `json:"sentAt,omitempty" db:"sent_at"`
	ItemCopyID       *int64             `json:"itemCopyId,omitempty" db:"item_copy_id"`
	TransactionID    *int64             `json:"transactionId,omitempty" db:"transaction_id"`
	ReservationID    *int64             `json:"reservationId,omitempty" db:"reservation_id"`
	FineID           *int64             `json:"fineId,omitempty" db:"fine_id"`
	Metadata         map[string]any     `json:"metadata,omitempty" db:"metadata"`
	CreatedAt        time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time          `json:"updatedAt" db:"updated_at"`
}

// Facts are the domain values a composed message is built from.
type Facts struct {
	PatronName    string    `json:"patronName"`
	ItemTitle     string    `json:"itemTitle"`
	ItemType      string    `json:"itemType"`
	Author        string    `json:"author,omitempty"`
	BranchName    string    `json:"branchName,omitempty"`
	CheckoutDate  time.Time `json:"checkoutDate,omitempty"`
	DueDate       time.Time `json:"dueDate,omitempty"`
	ReturnDate    time.Time `json:"returnDate,omitempty"`
	ExpiryDate    time.Time `json:"expiryDate,omitempty"`
	DaysOverdue   int       `json:"daysOverdue,omitempty"`
	FineCents     int64     `json:"fineCents,omitempty"`
	QueuePosition int       `json:"queuePosition,omitempty"`
}

// EnqueueRequest carries the fields of a new notification. When Subject is empty
// the message is composed from Facts.
type EnqueueRequest struct {
	PatronID         int64          `json:"patronId" validate:"required,gt=0"`
	EmailType        EmailType      `json:"emailType" validate:"required"`
	RecipientAddress string         `json:"recipientAddress" validate:"required,email"`
	Subject          string         `json:"subject"`
	BodyText         string         `json:"bodyText"`
	BodyHTML         string         `json:"bodyHtml"`
	Facts            Facts          `json:"facts"`
	Priority         int            `json:"priority" validate:"omitempty,min=1,max=10"`
	ScheduledFor     *time.Time     `json:"scheduledFor"`
	MaxRetries       int            `json:"maxRetries" validate:"omitempty,min=0,max=10"`
	ItemCopyID       *int64         `json:"itemCopyId"`
	TransactionID    *int64         `json:"transactionId"`
	ReservationID    *int64         `json:"reservationId"`
	FineID           *int64         `json:"fineId"`
	Metadata         map[string]any `json:"metadata"`
}

// CancelFilter selects pending notifications to cancel. At least one field must be set.
type CancelFilter struct {
	PatronID      *int64     `json:"patronId"`
	EmailType     *EmailType `json:"emailType"`
	ItemCopyID    *int64     `json:"itemCopyId"`
	ReservationID *int64     `json:"reservationId"`
	TransactionID *int64     `json:"transactionId"`
}

func (f CancelFilter) Empty() bool {
	return f.PatronID == nil && f.EmailType == nil && f.ItemCopyID == nil &&
		f.ReservationID == nil && f.TransactionID == nil
}

type CancelResponse struct {
	Cancelled int64 `json:"cancelled"`
}

type NotificationStats struct {
	ByStatus      map[NotificationStatus]int `json:"byStatus"`
	ByType        map[EmailType]int          `json:"byType"`
	AvgRetries    float64                    `json:"avgRetries"`
	DuePending    int                        `json:"duePending"`
	OldestPending *time.Time                 `json:"oldestPending,omitempty"`
}

type BatchResult struct {
	Selected int  `json:"selected"`
	Sent     int  `json:"sent"`
	Retried  int  `json:"retried"`
	Failed   int  `json:"failed"`
	Skipped  bool `json:"skipped"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
