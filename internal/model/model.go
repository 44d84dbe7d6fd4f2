package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type ItemKind string

const (
	KindBook    ItemKind = "BOOK"
	KindJournal ItemKind = "JOURNAL"
)

type CheckoutStatus string

const (
	CheckoutPending   CheckoutStatus = "PENDING"
	CheckoutCompleted CheckoutStatus = "COMPLETED"
	CheckoutCancelled CheckoutStatus = "CANCELLED"
	CheckoutReturned  CheckoutStatus = "RETURNED"
)

type BorrowingStatus string

const (
	BorrowingActive   BorrowingStatus = "ACTIVE"
	BorrowingOverdue  BorrowingStatus = "OVERDUE"
	BorrowingReturned BorrowingStatus = "RETURNED"
)

type InventoryItem struct {
	ID              int      `json:"-" db:"id"`
	ItemUid         string   `json:"itemUid" db:"item_uid"`
	Kind            ItemKind `json:"kind" db:"kind"`
	Name            string   `json:"name" db:"name"`
	TotalCopies     int      `json:"totalCopies" db:"total_copies"`
	AvailableCopies int      `json:"availableCopies" db:"available_copies"`
}

type Checkout struct {
	ID            int            `json:"-" db:"id"`
	CheckoutUid   string         `json:"checkoutUid" db:"checkout_uid"`
	Code          string         `json:"code" db:"code"`
	Username      string         `json:"username" db:"username"`
	ItemUid       string         `json:"itemUid" db:"item_uid"`
	BorrowingDays int            `json:"borrowingDays" db:"borrowing_days"`
	DueDate       time.Time      `json:"dueDate" db:"due_date"`
	Status        CheckoutStatus `json:"status" db:"status"`
	Notes         string         `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty" db:"completed_at"`
	CancelledAt   *time.Time     `json:"cancelledAt,omitempty" db:"cancelled_at"`
	ReturnedAt    *time.Time     `json:"returnedAt,omitempty" db:"returned_at"`
}

type Borrowing struct {
	ID           int             `json:"-" db:"id"`
	BorrowingUid string          `json:"borrowingUid" db:"borrowing_uid"`
	CheckoutUid  string          `json:"checkoutUid" db:"checkout_uid"`
	Username     string          `json:"username" db:"username"`
	ItemUid      string          `json:"itemUid" db:"item_uid"`
	BorrowDate   time.Time       `json:"borrowDate" db:"borrow_date"`
	DueDate      time.Time       `json:"dueDate" db:"due_date"`
	ReturnDate   *time.Time      `json:"returnDate,omitempty" db:"return_date"`
	Status       BorrowingStatus `json:"status" db:"status"`
	FineAmount   decimal.Decimal `json:"fineAmount" db:"fine_amount"`
}

type AuditEntry struct {
	ID         int64           `json:"-" db:"id"`
	EntityType string          `json:"entityType" db:"entity_type"`
	EntityID   string          `json:"entityId" db:"entity_id"`
	Action     string          `json:"action" db:"action"`
	Actor      string          `json:"actor" db:"actor"`
	Timestamp  time.Time       `json:"timestamp" db:"ts"`
	Details    json.RawMessage `json:"details" db:"details"`
}

type CreateItemRequest struct {
	Kind        ItemKind `json:"kind" validate:"required,oneof=BOOK JOURNAL"`
	Name        string   `json:"name" validate:"required,max=255"`
	TotalCopies int      `json:"totalCopies" validate:"required,gte=1"`
}

type CreateCheckoutRequest struct {
	ItemUid       string `json:"itemUid" validate:"required,uuid4"`
	BorrowingDays int    `json:"borrowingDays" validate:"required,gte=1"`
	Notes         string `json:"notes" validate:"max=500"`
	Username      string `json:"-" validate:"required"`
}

type CancelCheckoutRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type CompleteCheckoutResponse struct {
	Checkout  Checkout  `json:"checkout"`
	Borrowing Borrowing `json:"borrowing"`
}

type ReturnCheckoutResponse struct {
	Checkout  Checkout  `json:"checkout"`
	Borrowing Borrowing `json:"borrowing"`
}

type FineProjection struct {
	BorrowingUid string          `json:"borrowingUid"`
	Status       BorrowingStatus `json:"status"`
	Fine         decimal.Decimal `json:"fine"`
	AsOf         time.Time       `json:"asOf"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type AuditLog struct {
	Paging `json:",inline"`
	Items  []AuditEntry `json:"items"`
}
