package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/internal/repository"
	"tourportal/internal/scope"
	ws "tourportal/internal/websocket"
	"tourportal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateOrderRequest struct {
	ProductID       string `json:"product_id" binding:"required"`
	OrderType       string `json:"order_type" binding:"required,oneof=product booking"`
	Quantity        int    `json:"quantity" binding:"required,gte=1"`
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerContact string `json:"customer_contact"`
	ScheduledAt     string `json:"scheduled_at"` // RFC3339, bookings only
}

// AdminUpdateOrderRequest lets administrative actors correct any order field,
// including setting any valid status directly. Visitors never reach this path.
type AdminUpdateOrderRequest struct {
	Status             string `json:"status"`
	CustomerName       string `json:"customer_name"`
	CustomerContact    string `json:"customer_contact"`
	Quantity           int    `json:"quantity"`
	UnitPrice          string `json:"unit_price"` // Decimal string; empty keeps current
	CancellationReason string `json:"cancellation_reason"`
	ScheduledAt        string `json:"scheduled_at"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type OrderResponse struct {
	ID                 string  `json:"id"`
	BusinessID         string  `json:"business_id"`
	BusinessName       string  `json:"business_name,omitempty"`
	ProductID          *string `json:"product_id"`
	ProductName        string  `json:"product_name,omitempty"`
	OrderType          string  `json:"order_type"`
	ReferenceNo        string  `json:"reference_no"`
	CustomerName       string  `json:"customer_name"`
	CustomerContact    string  `json:"customer_contact"`
	Quantity           int     `json:"quantity"`
	UnitPrice          string  `json:"unit_price"`
	TotalAmount        string  `json:"total_amount"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellation_reason"`
	ScheduledAt        *string `json:"scheduled_at"`
	CreatedAt          string  `json:"created_at"`
	UpdatedAt          string  `json:"updated_at"`
}

type OrderListFilter struct {
	Search string
	Status string
}

// --- Interface ---

type OrderService interface {
	CreateSelfService(ctx context.Context, principal auth.Principal, req CreateOrderRequest) (OrderResponse, error)
	CancelOwn(ctx context.Context, principal auth.Principal, id string, req CancelOrderRequest) (OrderResponse, error)
	AdminUpdate(ctx context.Context, principal auth.Principal, id string, req AdminUpdateOrderRequest) (OrderResponse, error)
	Delete(ctx context.Context, principal auth.Principal, id string) error
	GetByID(ctx context.Context, principal auth.Principal, id string) (OrderResponse, error)
	List(ctx context.Context, principal auth.Principal, filter OrderListFilter, page, limit int) ([]OrderResponse, int64, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	offerRepo repository.OfferRepository
	resolver  scope.Resolver
	pipeline  *AuditPipeline
	hub       *ws.Hub
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	offerRepo repository.OfferRepository,
	resolver scope.Resolver,
	pipeline *AuditPipeline,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		offerRepo: offerRepo,
		resolver:  resolver,
		pipeline:  pipeline,
		hub:       hub,
	}
}

// scopeFor resolves the administrative order scope. content_admin administers
// CMS orders without ownership, so it gets the unbounded scope here while
// keeping an empty ownership scope everywhere else. This asymmetry mirrors
// how staff roles are trusted for flexible correction.
func (s *orderService) scopeFor(ctx context.Context, principal auth.Principal) (scope.BusinessScope, error) {
	if principal.Role == auth.RoleContentAdmin {
		return scope.Unbounded(), nil
	}
	return s.resolver.Resolve(ctx, principal)
}

// --- Implementation ---

// CreateSelfService places a visitor order. The total is recomputed
// server-side from the authoritative offer price; any client-submitted total
// is ignored. The offer must be active and its business published.
func (s *orderService) CreateSelfService(ctx context.Context, principal auth.Principal, req CreateOrderRequest) (OrderResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return OrderResponse{}, apperror.Validation("invalid product id")
	}

	offer, err := s.offerRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, apperror.NotFound("product not found")
		}
		return OrderResponse{}, fmt.Errorf("failed to fetch product: %w", err)
	}

	if offer.Status != model.OfferStatusActive {
		return OrderResponse{}, apperror.Unprocessable("product is not available for ordering")
	}
	if offer.Business == nil || offer.Business.Status != model.StatusPublished {
		return OrderResponse{}, apperror.Unprocessable("business is not published")
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return OrderResponse{}, apperror.Validation("invalid scheduled_at format, expected RFC3339")
		}
		scheduledAt = &t
	}

	quantity := decimal.NewFromInt(int64(req.Quantity))
	order := model.Order{
		BusinessID:      offer.BusinessID,
		ProductID:       &offer.ID,
		OrderType:       req.OrderType,
		ReferenceNo:     newReferenceNo(),
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		Quantity:        req.Quantity,
		UnitPrice:       offer.Price,
		TotalAmount:     offer.Price.Mul(quantity).Round(2),
		Status:          model.OrderStatusPending,
		ScheduledAt:     scheduledAt,
		CreatedBy:       principal.ActorID(),
		UpdatedBy:       principal.ActorID(),
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionCreate, model.ModuleOrder, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to create order: %w", err)
		}
		return AuditSnapshot{TargetID: order.ID.String(), After: order}, nil
	})
	if err != nil {
		return OrderResponse{}, err
	}

	s.broadcast("order_created", order)
	return toOrderResponse(order), nil
}

// CancelOwn is the only transition a visitor may perform: pending -> cancelled
// on their own order, with a non-empty reason.
func (s *orderService) CancelOwn(ctx context.Context, principal auth.Principal, id string, req CancelOrderRequest) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, apperror.Validation("invalid order id")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return OrderResponse{}, apperror.Validation("cancellation reason is required")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, apperror.NotFound("order not found")
		}
		return OrderResponse{}, fmt.Errorf("failed to fetch order: %w", err)
	}

	if order.CreatedBy == nil || principal.IsAnonymous() || *order.CreatedBy != principal.ID {
		log.Printf("denied access: principal %s attempted to cancel order %s", principal.ID, order.ID)
		return OrderResponse{}, apperror.Forbidden("order belongs to another customer")
	}
	if order.Status != model.OrderStatusPending {
		return OrderResponse{}, apperror.Conflict("only pending orders can be cancelled")
	}

	before := *order
	reason := strings.TrimSpace(req.Reason)
	order.Status = model.OrderStatusCancelled
	order.CancellationReason = &reason
	order.UpdatedBy = principal.ActorID()

	err = s.pipeline.Execute(ctx, principal, model.AuditActionUpdate, model.ModuleOrder, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to cancel order: %w", err)
		}
		return AuditSnapshot{TargetID: order.ID.String(), Before: before, After: *order}, nil
	})
	if err != nil {
		return OrderResponse{}, err
	}

	s.broadcast("order_status_changed", *order)
	return toOrderResponse(*order), nil
}

// AdminUpdate applies administrative corrections. Status may move to any
// valid enum value directly; no transition whitelist is enforced on this
// path. Last write wins on concurrent edits.
func (s *orderService) AdminUpdate(ctx context.Context, principal auth.Principal, id string, req AdminUpdateOrderRequest) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, apperror.Validation("invalid order id")
	}

	sc, err := s.scopeFor(ctx, principal)
	if err != nil {
		return OrderResponse{}, err
	}
	if sc.IsEmpty() {
		log.Printf("denied access: principal %s role %s has no scope for order administration", principal.ID, principal.Role)
		return OrderResponse{}, apperror.Forbidden("no business scope for order administration")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, apperror.NotFound("order not found")
		}
		return OrderResponse{}, fmt.Errorf("failed to fetch order: %w", err)
	}
	if !sc.Contains(order.BusinessID) {
		log.Printf("denied access: principal %s attempted to update order %s outside scope", principal.ID, order.ID)
		return OrderResponse{}, apperror.Forbidden("order is outside your business scope")
	}

	before := *order

	if req.Status != "" {
		if !model.ValidOrderStatus(req.Status) {
			return OrderResponse{}, apperror.Validation("invalid order status")
		}
		order.Status = req.Status
	}
	if req.CustomerName != "" {
		order.CustomerName = req.CustomerName
	}
	if req.CustomerContact != "" {
		order.CustomerContact = req.CustomerContact
	}
	if req.Quantity > 0 {
		order.Quantity = req.Quantity
		order.TotalAmount = order.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)
	}
	if req.UnitPrice != "" {
		price, err := decimal.NewFromString(req.UnitPrice)
		if err != nil || price.IsNegative() {
			return OrderResponse{}, apperror.Validation("invalid unit_price: must be a non-negative decimal")
		}
		order.UnitPrice = price
		order.TotalAmount = price.Mul(decimal.NewFromInt(int64(order.Quantity))).Round(2)
	}
	if req.CancellationReason != "" {
		reason := req.CancellationReason
		order.CancellationReason = &reason
	}
	if req.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			return OrderResponse{}, apperror.Validation("invalid scheduled_at format, expected RFC3339")
		}
		order.ScheduledAt = &t
	}
	order.UpdatedBy = principal.ActorID()

	err = s.pipeline.Execute(ctx, principal, model.AuditActionUpdate, model.ModuleOrder, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to update order: %w", err)
		}
		return AuditSnapshot{TargetID: order.ID.String(), Before: before, After: *order}, nil
	})
	if err != nil {
		return OrderResponse{}, err
	}

	if before.Status != order.Status {
		s.broadcast("order_status_changed", *order)
	}
	return toOrderResponse(*order), nil
}

func (s *orderService) Delete(ctx context.Context, principal auth.Principal, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid order id")
	}

	sc, err := s.scopeFor(ctx, principal)
	if err != nil {
		return err
	}
	if sc.IsEmpty() {
		log.Printf("denied access: principal %s role %s has no scope for order administration", principal.ID, principal.Role)
		return apperror.Forbidden("no business scope for order administration")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("order not found")
		}
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if !sc.Contains(order.BusinessID) {
		log.Printf("denied access: principal %s attempted to delete order %s outside scope", principal.ID, order.ID)
		return apperror.Forbidden("order is outside your business scope")
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionDelete, model.ModuleOrder, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.orderRepo.Delete(txCtx, orderID); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to delete order: %w", err)
		}
		return AuditSnapshot{TargetID: order.ID.String(), Before: *order}, nil
	})
	if err != nil {
		return err
	}

	s.broadcast("order_deleted", *order)
	return nil
}

func (s *orderService) GetByID(ctx context.Context, principal auth.Principal, id string) (OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return OrderResponse{}, apperror.Validation("invalid order id")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderResponse{}, apperror.NotFound("order not found")
		}
		return OrderResponse{}, fmt.Errorf("failed to fetch order: %w", err)
	}

	// Visitors resolve only their own orders.
	if principal.Role == auth.RoleVisitor {
		if order.CreatedBy == nil || *order.CreatedBy != principal.ID {
			log.Printf("denied access: principal %s attempted to read order %s", principal.ID, order.ID)
			return OrderResponse{}, apperror.Forbidden("order belongs to another customer")
		}
		return toOrderResponse(*order), nil
	}

	sc, err := s.scopeFor(ctx, principal)
	if err != nil {
		return OrderResponse{}, err
	}
	if !sc.Contains(order.BusinessID) {
		log.Printf("denied access: principal %s attempted to read order %s outside scope", principal.ID, order.ID)
		return OrderResponse{}, apperror.Forbidden("order is outside your business scope")
	}

	return toOrderResponse(*order), nil
}

func (s *orderService) List(ctx context.Context, principal auth.Principal, filter OrderListFilter, page, limit int) ([]OrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	repoFilter := repository.OrderFilter{Search: filter.Search, Status: filter.Status}

	var (
		orders []model.Order
		total  int64
		err    error
	)

	if principal.Role == auth.RoleVisitor {
		if principal.IsAnonymous() {
			log.Printf("denied access: anonymous visitor attempted to list orders")
			return nil, 0, apperror.Forbidden("authentication required to list orders")
		}
		orders, total, err = s.orderRepo.ListCreatedBy(ctx, principal.ID, repoFilter, page, limit)
	} else {
		var sc scope.BusinessScope
		sc, err = s.scopeFor(ctx, principal)
		if err != nil {
			return nil, 0, err
		}
		if sc.IsEmpty() {
			log.Printf("denied access: principal %s role %s has no scope for order listing", principal.ID, principal.Role)
			return nil, 0, apperror.Forbidden("no business scope for order listing")
		}
		orders, total, err = s.orderRepo.ListScoped(ctx, sc, repoFilter, page, limit)
	}
	if err != nil {
		return nil, 0, err
	}

	res := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		res = append(res, toOrderResponse(o))
	}
	return res, total, nil
}

// --- Helpers ---

func newReferenceNo() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

func (s *orderService) broadcast(event string, order model.Order) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastOrderEvent(ws.OrderEvent{
		Event:       event,
		OrderID:     order.ID.String(),
		BusinessID:  order.BusinessID.String(),
		ReferenceNo: order.ReferenceNo,
		Status:      order.Status,
	})
}

func toOrderResponse(o model.Order) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID.String(),
		BusinessID:         o.BusinessID.String(),
		OrderType:          o.OrderType,
		ReferenceNo:        o.ReferenceNo,
		CustomerName:       o.CustomerName,
		CustomerContact:    o.CustomerContact,
		Quantity:           o.Quantity,
		UnitPrice:          o.UnitPrice.StringFixed(2),
		TotalAmount:        o.TotalAmount.StringFixed(2),
		Status:             o.Status,
		CancellationReason: o.CancellationReason,
		CreatedAt:          o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          o.UpdatedAt.Format(time.RFC3339),
	}
	if o.ProductID != nil {
		pid := o.ProductID.String()
		resp.ProductID = &pid
	}
	if o.Business != nil {
		resp.BusinessName = o.Business.Name
	}
	if o.Product != nil {
		resp.ProductName = o.Product.Name
	}
	if o.ScheduledAt != nil {
		t := o.ScheduledAt.Format(time.RFC3339)
		resp.ScheduledAt = &t
	}
	return resp
}
