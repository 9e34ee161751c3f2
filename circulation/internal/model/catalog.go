package model

import (
	"strings"
	"time"
)

type CopyStatus string

const (
	CopyAvailable  CopyStatus = "Available"
	CopyCheckedOut CopyStatus = "CheckedOut"
	CopyReserved   CopyStatus = "Reserved"
	CopyUnshelved  CopyStatus = "Unshelved"
	CopyProcessing CopyStatus = "Processing"
	CopyDamaged    CopyStatus = "Damaged"
	CopyLost       CopyStatus = "Lost"
	CopyWithdrawn  CopyStatus = "Withdrawn"
)

// Reservable lists the copy statuses a patron may place a hold against.
func (s CopyStatus) Reservable() bool {
	switch s {
	case CopyAvailable, CopyCheckedOut, CopyUnshelved, CopyReserved:
		return true
	}
	return false
}

type ItemCopy struct {
	ID       int64      `json:"id" db:"id"`
	ItemID   int64      `json:"itemId" db:"item_id"`
	BranchID int64      `json:"branchId" db:"branch_id"`
	Barcode  string     `json:"barcode" db:"barcode"`
	Status   CopyStatus `json:"status" db:"status"`
}

type Patron struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Email     string `json:"email" db:"email"`
	IsActive  bool   `json:"isActive" db:"is_active"`
}

func (p Patron) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Item struct {
	ID       int64  `json:"id" db:"id"`
	Title    string `json:"title" db:"title"`
	ItemType string `json:"itemType" db:"item_type"`
	Author   string `json:"author" db:"author"`
}

// CopyDetails is a copy joined with its item and branch, used to fill notification facts.
type CopyDetails struct {
	ItemCopyID int64  `db:"item_copy_id"`
	Title      string `db:"title"`
	ItemType   string `db:"item_type"`
	Author     string `db:"author"`
	BranchName string `db:"branch_name"`
}

// LoanDue is an active loan joined with the patron and item it concerns.
type LoanDue struct {
	TransactionID   int64     `db:"transaction_id"`
	ItemCopyID      int64     `db:"item_copy_id"`
	PatronID        int64     `db:"patron_id"`
	PatronFirstName string    `db:"first_name"`
	PatronLastName  string    `db:"last_name"`
	PatronEmail     string    `db:"email"`
	Title           string    `db:"title"`
	ItemType        string    `db:"item_type"`
	BranchName      string    `db:"branch_name"`
	CheckoutDate    time.Time `db:"checkout_date"`
	DueDate         time.Time `db:"due_date"`
}

func (l LoanDue) PatronName() string {
	return strings.TrimSpace(l.PatronFirstName + " " + l.PatronLastName)
}
