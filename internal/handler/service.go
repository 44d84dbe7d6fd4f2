package handler

import (
	"context"

	"github.com/libraflow/borrowing-service/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=service_mocks

type BorrowingService interface {
	CreateItem(ctx context.Context, req model.CreateItemRequest) (model.InventoryItem, error)
	GetItem(ctx context.Context, itemUID string) (model.InventoryItem, error)

	CreateCheckout(ctx context.Context, req model.CreateCheckoutRequest) (model.Checkout, error)
	GetCheckout(ctx context.Context, checkoutUID string) (model.Checkout, error)
	GetCheckouts(ctx context.Context, username string) ([]model.Checkout, error)
	CompleteCheckout(ctx context.Context, username, checkoutUID string) (model.CompleteCheckoutResponse, error)
	CancelCheckout(ctx context.Context, username, checkoutUID, reason string) (model.Checkout, error)
	ReturnCheckout(ctx context.Context, username, checkoutUID string) (model.ReturnCheckoutResponse, error)

	GetBorrowings(ctx context.Context, username string) ([]model.Borrowing, error)
	CurrentFine(ctx context.Context, borrowingUID string) (model.FineProjection, error)

	GetAuditLog(ctx context.Context, page, size int) (model.AuditLog, error)
}
