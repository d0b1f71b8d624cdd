package service

import (
	"context"
	"time"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/internal/repository"
)

type AuditLogResponse struct {
	ID         string  `json:"id"`
	ActorID    string  `json:"actor_id"`
	ActorName  string  `json:"actor_name"`
	Action     string  `json:"action"`
	Module     string  `json:"module"`
	TargetID   *string `json:"target_id"`
	BeforeJSON *string `json:"before_json"`
	AfterJSON  *string `json:"after_json"`
	CreatedAt  string  `json:"created_at"`
}

type VisitorAnalyticsResponse struct {
	From       string                      `json:"from"`
	To         string                      `json:"to"`
	TotalViews int64                       `json:"total_views"`
	Daily      []repository.PageViewBucket `json:"daily"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, module, action string, page, limit int) ([]AuditLogResponse, int64, error)
	RecordPageView(ctx context.Context, principal auth.Principal, page string) error
	GetVisitorAnalytics(ctx context.Context, from, to time.Time) (VisitorAnalyticsResponse, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// GetAuditLogs retrieves paginated audit entries, newest first, with optional
// module/action filters.
func (s *auditService) GetAuditLogs(ctx context.Context, module, action string, page, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.auditRepo.List(ctx, repository.AuditFilter{Module: module, Action: action}, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		actorName := "System"
		actorID := ""
		if l.Actor != nil {
			actorName = l.Actor.Username
		}
		if l.ActorID != nil {
			actorID = l.ActorID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			ActorID:    actorID,
			ActorName:  actorName,
			Action:     l.Action,
			Module:     l.Module,
			TargetID:   l.TargetID,
			BeforeJSON: l.BeforeJSON,
			AfterJSON:  l.AfterJSON,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}

// RecordPageView writes a view row for dashboard analytics. Page views have
// no owner and are valid for anonymous visitors, so the actor may be nil.
func (s *auditService) RecordPageView(ctx context.Context, principal auth.Principal, page string) error {
	target := page
	entry := &model.AuditLog{
		ActorID:  principal.ActorID(),
		Action:   model.AuditActionView,
		Module:   model.ModuleVisitorPage,
		TargetID: &target,
	}
	return s.auditRepo.Log(ctx, entry)
}

func (s *auditService) GetVisitorAnalytics(ctx context.Context, from, to time.Time) (VisitorAnalyticsResponse, error) {
	total, err := s.auditRepo.CountPageViews(ctx, from, to)
	if err != nil {
		return VisitorAnalyticsResponse{}, err
	}

	daily, err := s.auditRepo.PageViewSeries(ctx, from, to)
	if err != nil {
		return VisitorAnalyticsResponse{}, err
	}

	return VisitorAnalyticsResponse{
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
		TotalViews: total,
		Daily:      daily,
	}, nil
}
