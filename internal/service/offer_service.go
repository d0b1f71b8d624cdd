package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/internal/repository"
	"tourportal/internal/sanitize"
	"tourportal/internal/scope"
	"tourportal/internal/storage"
	"tourportal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateOfferRequest struct {
	BusinessID  string `json:"business_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsService   bool   `json:"is_service"`
	Price       string `json:"price" binding:"required"` // Decimal string
	ImagePath   string `json:"image_path"`
}

type UpdateOfferRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImagePath   string `json:"image_path"`
	Status      string `json:"status" binding:"omitempty,oneof=draft active inactive"`
}

type OfferResponse struct {
	ID           string `json:"id"`
	BusinessID   string `json:"business_id"`
	BusinessName string `json:"business_name,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsService    bool   `json:"is_service"`
	Price        string `json:"price"`
	ImagePath    string `json:"image_path"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// --- Interface ---

type OfferService interface {
	Create(ctx context.Context, principal auth.Principal, req CreateOfferRequest) (OfferResponse, error)
	Update(ctx context.Context, principal auth.Principal, id string, req UpdateOfferRequest) (OfferResponse, error)
	Delete(ctx context.Context, principal auth.Principal, id string) error
	ListScoped(ctx context.Context, principal auth.Principal, page, limit int, search string) ([]OfferResponse, int64, error)
	ListPublished(ctx context.Context, page, limit int, search string) ([]OfferResponse, int64, error)
}

type offerService struct {
	offerRepo repository.OfferRepository
	resolver  scope.Resolver
	pipeline  *AuditPipeline
	sanitizer sanitize.Sanitizer
	media     storage.MediaStore
}

func NewOfferService(
	offerRepo repository.OfferRepository,
	resolver scope.Resolver,
	pipeline *AuditPipeline,
	sanitizer sanitize.Sanitizer,
	media storage.MediaStore,
) OfferService {
	return &offerService{
		offerRepo: offerRepo,
		resolver:  resolver,
		pipeline:  pipeline,
		sanitizer: sanitizer,
		media:     media,
	}
}

// --- Implementation ---

func (s *offerService) Create(ctx context.Context, principal auth.Principal, req CreateOfferRequest) (OfferResponse, error) {
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return OfferResponse{}, apperror.Validation("invalid business id")
	}

	if err := s.authorizeBusiness(ctx, principal, businessID); err != nil {
		return OfferResponse{}, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return OfferResponse{}, apperror.Validation("invalid price: must be a non-negative decimal")
	}

	offer := model.Offer{
		BusinessID:  businessID,
		Name:        s.sanitizer.Clean(req.Name),
		Description: s.sanitizer.Clean(req.Description),
		IsService:   req.IsService,
		Price:       price,
		ImagePath:   req.ImagePath,
		Status:      model.OfferStatusDraft,
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionCreate, model.ModuleOffer, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.offerRepo.Create(txCtx, &offer); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to create offer: %w", err)
		}
		return AuditSnapshot{TargetID: offer.ID.String(), After: offer}, nil
	})
	if err != nil {
		return OfferResponse{}, err
	}

	return toOfferResponse(offer), nil
}

func (s *offerService) Update(ctx context.Context, principal auth.Principal, id string, req UpdateOfferRequest) (OfferResponse, error) {
	offerID, err := uuid.Parse(id)
	if err != nil {
		return OfferResponse{}, apperror.Validation("invalid offer id")
	}

	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OfferResponse{}, apperror.NotFound("offer not found")
		}
		return OfferResponse{}, fmt.Errorf("failed to fetch offer: %w", err)
	}

	if err := s.authorizeBusiness(ctx, principal, offer.BusinessID); err != nil {
		return OfferResponse{}, err
	}

	before := *offer
	oldImage := offer.ImagePath

	if req.Name != "" {
		offer.Name = s.sanitizer.Clean(req.Name)
	}
	if req.Description != "" {
		offer.Description = s.sanitizer.Clean(req.Description)
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			return OfferResponse{}, apperror.Validation("invalid price: must be a non-negative decimal")
		}
		offer.Price = price
	}
	if req.ImagePath != "" {
		offer.ImagePath = req.ImagePath
	}
	if req.Status != "" {
		offer.Status = req.Status
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionUpdate, model.ModuleOffer, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.offerRepo.Update(txCtx, offer); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to update offer: %w", err)
		}
		return AuditSnapshot{TargetID: offer.ID.String(), Before: before, After: *offer}, nil
	})
	if err != nil {
		return OfferResponse{}, err
	}

	if oldImage != "" && oldImage != offer.ImagePath {
		if err := s.media.Delete(oldImage); err != nil {
			log.Printf("failed to delete replaced media %q: %v", oldImage, err)
		}
	}

	return toOfferResponse(*offer), nil
}

func (s *offerService) Delete(ctx context.Context, principal auth.Principal, id string) error {
	offerID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid offer id")
	}

	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("offer not found")
		}
		return fmt.Errorf("failed to fetch offer: %w", err)
	}

	if err := s.authorizeBusiness(ctx, principal, offer.BusinessID); err != nil {
		return err
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionDelete, model.ModuleOffer, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.offerRepo.Delete(txCtx, offerID); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to delete offer: %w", err)
		}
		return AuditSnapshot{TargetID: offer.ID.String(), Before: *offer}, nil
	})
	if err != nil {
		return err
	}

	if offer.ImagePath != "" {
		if err := s.media.Delete(offer.ImagePath); err != nil {
			log.Printf("failed to delete media %q: %v", offer.ImagePath, err)
		}
	}
	return nil
}

func (s *offerService) ListScoped(ctx context.Context, principal auth.Principal, page, limit int, search string) ([]OfferResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	sc, err := s.scopeFor(ctx, principal)
	if err != nil {
		return nil, 0, err
	}
	if sc.IsEmpty() {
		log.Printf("denied access: principal %s role %s has no scope for offer listing", principal.ID, principal.Role)
		return nil, 0, apperror.Forbidden("no business scope for offer listing")
	}

	offers, total, err := s.offerRepo.ListScoped(ctx, sc, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		res = append(res, toOfferResponse(o))
	}
	return res, total, nil
}

func (s *offerService) ListPublished(ctx context.Context, page, limit int, search string) ([]OfferResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	offers, total, err := s.offerRepo.ListPublished(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		res = append(res, toOfferResponse(o))
	}
	return res, total, nil
}

// scopeFor mirrors the order-administration rule: content_admin may manage
// offers of any business, owners only their own.
func (s *offerService) scopeFor(ctx context.Context, principal auth.Principal) (scope.BusinessScope, error) {
	if principal.Role == auth.RoleContentAdmin {
		return scope.Unbounded(), nil
	}
	return s.resolver.Resolve(ctx, principal)
}

func (s *offerService) authorizeBusiness(ctx context.Context, principal auth.Principal, businessID uuid.UUID) error {
	sc, err := s.scopeFor(ctx, principal)
	if err != nil {
		return err
	}
	if !sc.Contains(businessID) {
		log.Printf("denied access: principal %s attempted to mutate offers of business %s", principal.ID, businessID)
		return apperror.Forbidden("business is outside your scope")
	}
	return nil
}

func toOfferResponse(o model.Offer) OfferResponse {
	resp := OfferResponse{
		ID:          o.ID.String(),
		BusinessID:  o.BusinessID.String(),
		Name:        o.Name,
		Description: o.Description,
		IsService:   o.IsService,
		Price:       o.Price.StringFixed(2),
		ImagePath:   o.ImagePath,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
	if o.Business != nil {
		resp.BusinessName = o.Business.Name
	}
	return resp
}
