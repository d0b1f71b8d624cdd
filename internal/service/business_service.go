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
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBusinessRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Contact     string `json:"contact"`
	ImagePath   string `json:"image_path"`
	OwnerUserID string `json:"owner_user_id"` // Optional: staff may assign an owner
}

type UpdateBusinessRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Contact     string `json:"contact"`
	ImagePath   string `json:"image_path"`
	Status      string `json:"status" binding:"omitempty,oneof=draft published archived"`
}

type BusinessResponse struct {
	ID          string  `json:"id"`
	OwnerUserID *string `json:"owner_user_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Contact     string  `json:"contact"`
	ImagePath   string  `json:"image_path"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// --- Interface ---

type BusinessService interface {
	Create(ctx context.Context, principal auth.Principal, req CreateBusinessRequest) (BusinessResponse, error)
	Update(ctx context.Context, principal auth.Principal, id string, req UpdateBusinessRequest) (BusinessResponse, error)
	Delete(ctx context.Context, principal auth.Principal, id string) error
	GetByID(ctx context.Context, id string) (BusinessResponse, error)
	List(ctx context.Context, page, limit int, search, status string) ([]BusinessResponse, int64, error)
	ListMine(ctx context.Context, principal auth.Principal) ([]BusinessResponse, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
	resolver     scope.Resolver
	pipeline     *AuditPipeline
	sanitizer    sanitize.Sanitizer
	media        storage.MediaStore
}

func NewBusinessService(
	businessRepo repository.BusinessRepository,
	resolver scope.Resolver,
	pipeline *AuditPipeline,
	sanitizer sanitize.Sanitizer,
	media storage.MediaStore,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		resolver:     resolver,
		pipeline:     pipeline,
		sanitizer:    sanitizer,
		media:        media,
	}
}

// --- Implementation ---

// Create registers a business. Staff may assign any owner; a business_owner
// always becomes the owner of what they register, starting in draft.
func (s *businessService) Create(ctx context.Context, principal auth.Principal, req CreateBusinessRequest) (BusinessResponse, error) {
	business := model.Business{
		Name:        s.sanitizer.Clean(req.Name),
		Description: s.sanitizer.Clean(req.Description),
		Address:     s.sanitizer.Clean(req.Address),
		Contact:     s.sanitizer.Clean(req.Contact),
		ImagePath:   req.ImagePath,
		Status:      model.StatusDraft,
	}

	switch principal.Role {
	case auth.RoleBusinessOwner:
		business.OwnerUserID = principal.ActorID()
	case auth.RoleSuperAdmin, auth.RoleContentAdmin:
		if req.OwnerUserID != "" {
			ownerID, err := uuid.Parse(req.OwnerUserID)
			if err != nil {
				return BusinessResponse{}, apperror.Validation("invalid owner_user_id")
			}
			business.OwnerUserID = &ownerID
		}
	default:
		log.Printf("denied access: principal %s role %s attempted to register a business", principal.ID, principal.Role)
		return BusinessResponse{}, apperror.Forbidden("visitors cannot register businesses")
	}

	err := s.pipeline.Execute(ctx, principal, model.AuditActionCreate, model.ModuleBusiness, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.businessRepo.Create(txCtx, &business); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to create business: %w", err)
		}
		return AuditSnapshot{TargetID: business.ID.String(), After: business}, nil
	})
	if err != nil {
		return BusinessResponse{}, err
	}

	return toBusinessResponse(business), nil
}

func (s *businessService) Update(ctx context.Context, principal auth.Principal, id string, req UpdateBusinessRequest) (BusinessResponse, error) {
	businessID, err := uuid.Parse(id)
	if err != nil {
		return BusinessResponse{}, apperror.Validation("invalid business id")
	}

	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BusinessResponse{}, apperror.NotFound("business not found")
		}
		return BusinessResponse{}, fmt.Errorf("failed to fetch business: %w", err)
	}

	if err := s.authorizeMutation(ctx, principal, business); err != nil {
		return BusinessResponse{}, err
	}

	before := *business
	oldImage := business.ImagePath

	if req.Name != "" {
		business.Name = s.sanitizer.Clean(req.Name)
	}
	if req.Description != "" {
		business.Description = s.sanitizer.Clean(req.Description)
	}
	if req.Address != "" {
		business.Address = s.sanitizer.Clean(req.Address)
	}
	if req.Contact != "" {
		business.Contact = s.sanitizer.Clean(req.Contact)
	}
	if req.ImagePath != "" {
		business.ImagePath = req.ImagePath
	}
	if req.Status != "" {
		// Status transitions are free-form for businesses; the audit entry
		// is what makes them reviewable.
		business.Status = req.Status
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionUpdate, model.ModuleBusiness, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.businessRepo.Update(txCtx, business); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to update business: %w", err)
		}
		return AuditSnapshot{TargetID: business.ID.String(), Before: before, After: *business}, nil
	})
	if err != nil {
		return BusinessResponse{}, err
	}

	// Replaced image: best-effort cleanup, never fails the request.
	if oldImage != "" && oldImage != business.ImagePath {
		if err := s.media.Delete(oldImage); err != nil {
			log.Printf("failed to delete replaced media %q: %v", oldImage, err)
		}
	}

	return toBusinessResponse(*business), nil
}

func (s *businessService) Delete(ctx context.Context, principal auth.Principal, id string) error {
	businessID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid business id")
	}

	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("business not found")
		}
		return fmt.Errorf("failed to fetch business: %w", err)
	}

	if err := s.authorizeMutation(ctx, principal, business); err != nil {
		return err
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionDelete, model.ModuleBusiness, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.businessRepo.Delete(txCtx, businessID); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to delete business: %w", err)
		}
		return AuditSnapshot{TargetID: business.ID.String(), Before: *business}, nil
	})
	if err != nil {
		return err
	}

	if business.ImagePath != "" {
		if err := s.media.Delete(business.ImagePath); err != nil {
			log.Printf("failed to delete media %q: %v", business.ImagePath, err)
		}
	}
	return nil
}

func (s *businessService) GetByID(ctx context.Context, id string) (BusinessResponse, error) {
	businessID, err := uuid.Parse(id)
	if err != nil {
		return BusinessResponse{}, apperror.Validation("invalid business id")
	}

	business, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BusinessResponse{}, apperror.NotFound("business not found")
		}
		return BusinessResponse{}, fmt.Errorf("failed to fetch business: %w", err)
	}
	return toBusinessResponse(*business), nil
}

func (s *businessService) List(ctx context.Context, page, limit int, search, status string) ([]BusinessResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	businesses, total, err := s.businessRepo.List(ctx, page, limit, search, status)
	if err != nil {
		return nil, 0, err
	}

	res := make([]BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		res = append(res, toBusinessResponse(b))
	}
	return res, total, nil
}

func (s *businessService) ListMine(ctx context.Context, principal auth.Principal) ([]BusinessResponse, error) {
	if principal.Role != auth.RoleBusinessOwner {
		log.Printf("denied access: principal %s role %s requested the owned-business listing", principal.ID, principal.Role)
		return nil, apperror.Forbidden("only business owners have an owned-business listing")
	}

	businesses, err := s.businessRepo.ListOwnedBy(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	res := make([]BusinessResponse, 0, len(businesses))
	for _, b := range businesses {
		res = append(res, toBusinessResponse(b))
	}
	return res, nil
}

// authorizeMutation applies ownership scope to business mutations. Staff
// roles administer all listings; owners only their own.
func (s *businessService) authorizeMutation(ctx context.Context, principal auth.Principal, business *model.Business) error {
	switch principal.Role {
	case auth.RoleSuperAdmin, auth.RoleContentAdmin:
		return nil
	case auth.RoleBusinessOwner:
		sc, err := s.resolver.Resolve(ctx, principal)
		if err != nil {
			return err
		}
		if !sc.Contains(business.ID) {
			log.Printf("denied access: principal %s attempted to mutate business %s", principal.ID, business.ID)
			return apperror.Forbidden("business is outside your scope")
		}
		return nil
	default:
		log.Printf("denied access: principal %s role %s attempted a business mutation", principal.ID, principal.Role)
		return apperror.Forbidden("insufficient role for business mutation")
	}
}

func toBusinessResponse(b model.Business) BusinessResponse {
	resp := BusinessResponse{
		ID:          b.ID.String(),
		Name:        b.Name,
		Description: b.Description,
		Address:     b.Address,
		Contact:     b.Contact,
		ImagePath:   b.ImagePath,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
	if b.OwnerUserID != nil {
		owner := b.OwnerUserID.String()
		resp.OwnerUserID = &owner
	}
	return resp
}
