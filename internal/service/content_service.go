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
	"tourportal/internal/storage"
	"tourportal/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type ContentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address"` // attractions
	Venue       string `json:"venue"`   // events
	ImagePath   string `json:"image_path"`
	Status      string `json:"status" binding:"omitempty,oneof=draft published archived"`
	StartsAt    string `json:"starts_at"` // RFC3339, events only
	EndsAt      string `json:"ends_at"`
}

type ContentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address,omitempty"`
	Venue       string  `json:"venue,omitempty"`
	ImagePath   string  `json:"image_path"`
	Status      string  `json:"status"`
	StartsAt    *string `json:"starts_at,omitempty"`
	EndsAt      *string `json:"ends_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// --- Interface ---

// ContentService manages the attraction and event content modules. Content
// has no per-owner scope; route middleware restricts it to staff roles.
type ContentService interface {
	CreateAttraction(ctx context.Context, principal auth.Principal, req ContentRequest) (ContentResponse, error)
	UpdateAttraction(ctx context.Context, principal auth.Principal, id string, req ContentRequest) (ContentResponse, error)
	DeleteAttraction(ctx context.Context, principal auth.Principal, id string) error
	ListAttractions(ctx context.Context, page, limit int, search, status string) ([]ContentResponse, int64, error)

	CreateEvent(ctx context.Context, principal auth.Principal, req ContentRequest) (ContentResponse, error)
	UpdateEvent(ctx context.Context, principal auth.Principal, id string, req ContentRequest) (ContentResponse, error)
	DeleteEvent(ctx context.Context, principal auth.Principal, id string) error
	ListEvents(ctx context.Context, page, limit int, search, status string) ([]ContentResponse, int64, error)
}

type contentService struct {
	attractionRepo repository.AttractionRepository
	eventRepo      repository.EventRepository
	pipeline       *AuditPipeline
	sanitizer      sanitize.Sanitizer
	media          storage.MediaStore
}

func NewContentService(
	attractionRepo repository.AttractionRepository,
	eventRepo repository.EventRepository,
	pipeline *AuditPipeline,
	sanitizer sanitize.Sanitizer,
	media storage.MediaStore,
) ContentService {
	return &contentService{
		attractionRepo: attractionRepo,
		eventRepo:      eventRepo,
		pipeline:       pipeline,
		sanitizer:      sanitizer,
		media:          media,
	}
}

// --- Attractions ---

func (s *contentService) CreateAttraction(ctx context.Context, principal auth.Principal, req ContentRequest) (ContentResponse, error) {
	status := req.Status
	if status == "" {
		status = model.StatusDraft
	}

	attraction := model.Attraction{
		Name:        s.sanitizer.Clean(req.Name),
		Description: s.sanitizer.Clean(req.Description),
		Address:     s.sanitizer.Clean(req.Address),
		ImagePath:   req.ImagePath,
		Status:      status,
	}

	err := s.pipeline.Execute(ctx, principal, model.AuditActionCreate, model.ModuleAttraction, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.attractionRepo.Create(txCtx, &attraction); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to create attraction: %w", err)
		}
		return AuditSnapshot{TargetID: attraction.ID.String(), After: attraction}, nil
	})
	if err != nil {
		return ContentResponse{}, err
	}

	return attractionResponse(attraction), nil
}

func (s *contentService) UpdateAttraction(ctx context.Context, principal auth.Principal, id string, req ContentRequest) (ContentResponse, error) {
	attractionID, err := uuid.Parse(id)
	if err != nil {
		return ContentResponse{}, apperror.Validation("invalid attraction id")
	}

	attraction, err := s.attractionRepo.FindByID(ctx, attractionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ContentResponse{}, apperror.NotFound("attraction not found")
		}
		return ContentResponse{}, fmt.Errorf("failed to fetch attraction: %w", err)
	}

	before := *attraction
	oldImage := attraction.ImagePath

	attraction.Name = s.sanitizer.Clean(req.Name)
	if req.Description != "" {
		attraction.Description = s.sanitizer.Clean(req.Description)
	}
	if req.Address != "" {
		attraction.Address = s.sanitizer.Clean(req.Address)
	}
	if req.ImagePath != "" {
		attraction.ImagePath = req.ImagePath
	}
	if req.Status != "" {
		attraction.Status = req.Status
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionUpdate, model.ModuleAttraction, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.attractionRepo.Update(txCtx, attraction); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to update attraction: %w", err)
		}
		return AuditSnapshot{TargetID: attraction.ID.String(), Before: before, After: *attraction}, nil
	})
	if err != nil {
		return ContentResponse{}, err
	}

	if oldImage != "" && oldImage != attraction.ImagePath {
		if err := s.media.Delete(oldImage); err != nil {
			log.Printf("failed to delete replaced media %q: %v", oldImage, err)
		}
	}

	return attractionResponse(*attraction), nil
}

func (s *contentService) DeleteAttraction(ctx context.Context, principal auth.Principal, id string) error {
	attractionID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid attraction id")
	}

	attraction, err := s.attractionRepo.FindByID(ctx, attractionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("attraction not found")
		}
		return fmt.Errorf("failed to fetch attraction: %w", err)
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionDelete, model.ModuleAttraction, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.attractionRepo.Delete(txCtx, attractionID); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to delete attraction: %w", err)
		}
		return AuditSnapshot{TargetID: attraction.ID.String(), Before: *attraction}, nil
	})
	if err != nil {
		return err
	}

	if attraction.ImagePath != "" {
		if err := s.media.Delete(attraction.ImagePath); err != nil {
			log.Printf("failed to delete media %q: %v", attraction.ImagePath, err)
		}
	}
	return nil
}

func (s *contentService) ListAttractions(ctx context.Context, page, limit int, search, status string) ([]ContentResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	attractions, total, err := s.attractionRepo.List(ctx, page, limit, search, status)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ContentResponse, 0, len(attractions))
	for _, a := range attractions {
		res = append(res, attractionResponse(a))
	}
	return res, total, nil
}

// --- Events ---

func (s *contentService) CreateEvent(ctx context.Context, principal auth.Principal, req ContentRequest) (ContentResponse, error) {
	status := req.Status
	if status == "" {
		status = model.StatusDraft
	}

	startsAt, endsAt, err := parseEventWindow(req.StartsAt, req.EndsAt)
	if err != nil {
		return ContentResponse{}, err
	}

	event := model.Event{
		Name:        s.sanitizer.Clean(req.Name),
		Description: s.sanitizer.Clean(req.Description),
		Venue:       s.sanitizer.Clean(req.Venue),
		ImagePath:   req.ImagePath,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Status:      status,
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionCreate, model.ModuleEvent, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.eventRepo.Create(txCtx, &event); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to create event: %w", err)
		}
		return AuditSnapshot{TargetID: event.ID.String(), After: event}, nil
	})
	if err != nil {
		return ContentResponse{}, err
	}

	return eventResponse(event), nil
}

func (s *contentService) UpdateEvent(ctx context.Context, principal auth.Principal, id string, req ContentRequest) (ContentResponse, error) {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return ContentResponse{}, apperror.Validation("invalid event id")
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ContentResponse{}, apperror.NotFound("event not found")
		}
		return ContentResponse{}, fmt.Errorf("failed to fetch event: %w", err)
	}

	before := *event
	oldImage := event.ImagePath

	event.Name = s.sanitizer.Clean(req.Name)
	if req.Description != "" {
		event.Description = s.sanitizer.Clean(req.Description)
	}
	if req.Venue != "" {
		event.Venue = s.sanitizer.Clean(req.Venue)
	}
	if req.ImagePath != "" {
		event.ImagePath = req.ImagePath
	}
	if req.Status != "" {
		event.Status = req.Status
	}
	if req.StartsAt != "" || req.EndsAt != "" {
		startsAt, endsAt, err := parseEventWindow(req.StartsAt, req.EndsAt)
		if err != nil {
			return ContentResponse{}, err
		}
		if startsAt != nil {
			event.StartsAt = startsAt
		}
		if endsAt != nil {
			event.EndsAt = endsAt
		}
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionUpdate, model.ModuleEvent, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.eventRepo.Update(txCtx, event); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to update event: %w", err)
		}
		return AuditSnapshot{TargetID: event.ID.String(), Before: before, After: *event}, nil
	})
	if err != nil {
		return ContentResponse{}, err
	}

	if oldImage != "" && oldImage != event.ImagePath {
		if err := s.media.Delete(oldImage); err != nil {
			log.Printf("failed to delete replaced media %q: %v", oldImage, err)
		}
	}

	return eventResponse(*event), nil
}

func (s *contentService) DeleteEvent(ctx context.Context, principal auth.Principal, id string) error {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid event id")
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("event not found")
		}
		return fmt.Errorf("failed to fetch event: %w", err)
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionDelete, model.ModuleEvent, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.eventRepo.Delete(txCtx, eventID); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to delete event: %w", err)
		}
		return AuditSnapshot{TargetID: event.ID.String(), Before: *event}, nil
	})
	if err != nil {
		return err
	}

	if event.ImagePath != "" {
		if err := s.media.Delete(event.ImagePath); err != nil {
			log.Printf("failed to delete media %q: %v", event.ImagePath, err)
		}
	}
	return nil
}

func (s *contentService) ListEvents(ctx context.Context, page, limit int, search, status string) ([]ContentResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	events, total, err := s.eventRepo.List(ctx, page, limit, search, status)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ContentResponse, 0, len(events))
	for _, e := range events {
		res = append(res, eventResponse(e))
	}
	return res, total, nil
}

// --- Helpers ---

func parseEventWindow(startsStr, endsStr string) (*time.Time, *time.Time, error) {
	var startsAt, endsAt *time.Time
	if startsStr != "" {
		t, err := time.Parse(time.RFC3339, startsStr)
		if err != nil {
			return nil, nil, apperror.Validation("invalid starts_at format, expected RFC3339")
		}
		startsAt = &t
	}
	if endsStr != "" {
		t, err := time.Parse(time.RFC3339, endsStr)
		if err != nil {
			return nil, nil, apperror.Validation("invalid ends_at format, expected RFC3339")
		}
		endsAt = &t
	}
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		return nil, nil, apperror.Validation("ends_at must not precede starts_at")
	}
	return startsAt, endsAt, nil
}

func attractionResponse(a model.Attraction) ContentResponse {
	return ContentResponse{
		ID:          a.ID.String(),
		Name:        a.Name,
		Description: a.Description,
		Address:     a.Address,
		ImagePath:   a.ImagePath,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

func eventResponse(e model.Event) ContentResponse {
	resp := ContentResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Description: e.Description,
		Venue:       e.Venue,
		ImagePath:   e.ImagePath,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
	if e.StartsAt != nil {
		t := e.StartsAt.Format(time.RFC3339)
		resp.StartsAt = &t
	}
	if e.EndsAt != nil {
		t := e.EndsAt.Format(time.RFC3339)
		resp.EndsAt = &t
	}
	return resp
}
