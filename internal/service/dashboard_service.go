package service

import (
	"context"
	"log"
	"time"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/internal/repository"
	"tourportal/internal/scope"
	"tourportal/pkg/apperror"
)

// --- DTOs ---

type ModuleStatusBreakdown struct {
	Module string                   `json:"module"`
	Counts []repository.StatusCount `json:"counts"`
}

type CommerceSummary struct {
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
	CompletedOrders int64            `json:"completed_orders"`
	CompletedRevenue string          `json:"completed_revenue"`
}

type DashboardResponse struct {
	Modules         []ModuleStatusBreakdown     `json:"modules"`
	Commerce        CommerceSummary             `json:"commerce"`
	ModerationQueue []repository.ModerationItem `json:"moderation_queue,omitempty"`
}

// --- Interface ---

// DashboardService assembles the reporting views. Content tallies are global
// and staff-only; commerce figures are filtered through the caller's
// ownership scope so a business owner only ever sees their own numbers.
type DashboardService interface {
	GetOverview(ctx context.Context, principal auth.Principal, from, to time.Time) (DashboardResponse, error)
	GetModerationQueue(ctx context.Context, principal auth.Principal, limit int) ([]repository.ModerationItem, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	orderRepo     repository.OrderRepository
	resolver      scope.Resolver
}

func NewDashboardService(
	dashboardRepo repository.DashboardRepository,
	orderRepo repository.OrderRepository,
	resolver scope.Resolver,
) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		orderRepo:     orderRepo,
		resolver:      resolver,
	}
}

func isStaff(role string) bool {
	return role == auth.RoleSuperAdmin || role == auth.RoleContentAdmin
}

// commerceScope mirrors the order module: content_admin administers commerce
// without ownership and gets the unbounded scope.
func (s *dashboardService) commerceScope(ctx context.Context, principal auth.Principal) (scope.BusinessScope, error) {
	if principal.Role == auth.RoleContentAdmin {
		return scope.Unbounded(), nil
	}
	return s.resolver.Resolve(ctx, principal)
}

func (s *dashboardService) GetOverview(ctx context.Context, principal auth.Principal, from, to time.Time) (DashboardResponse, error) {
	sc, err := s.commerceScope(ctx, principal)
	if err != nil {
		return DashboardResponse{}, err
	}
	if sc.IsEmpty() {
		log.Printf("dashboard access denied: user=%s role=%s has no commerce scope", principal.ID, principal.Role)
		return DashboardResponse{}, apperror.Forbidden("no businesses in scope")
	}

	byStatus, err := s.orderRepo.CountByStatus(ctx, sc)
	if err != nil {
		return DashboardResponse{}, err
	}
	totals, err := s.orderRepo.CompletedTotals(ctx, sc, from, to)
	if err != nil {
		return DashboardResponse{}, err
	}

	resp := DashboardResponse{
		Commerce: CommerceSummary{
			OrdersByStatus:   byStatus,
			CompletedOrders:  totals.OrderCount,
			CompletedRevenue: totals.Revenue.StringFixed(2),
		},
	}

	// Content tallies and the moderation queue are platform-wide, so they are
	// reserved for staff roles.
	if isStaff(principal.Role) {
		modules := []struct {
			name   string
			entity interface{}
		}{
			{model.ModuleBusiness, &model.Business{}},
			{model.ModuleOffer, &model.Offer{}},
			{model.ModuleOrder, &model.Order{}},
			{model.ModuleAttraction, &model.Attraction{}},
			{model.ModuleEvent, &model.Event{}},
		}
		for _, m := range modules {
			counts, err := s.dashboardRepo.StatusCounts(ctx, m.entity)
			if err != nil {
				return DashboardResponse{}, err
			}
			resp.Modules = append(resp.Modules, ModuleStatusBreakdown{Module: m.name, Counts: counts})
		}

		queue, err := s.dashboardRepo.ModerationQueue(ctx, 20)
		if err != nil {
			return DashboardResponse{}, err
		}
		resp.ModerationQueue = queue
	}

	return resp, nil
}

func (s *dashboardService) GetModerationQueue(ctx context.Context, principal auth.Principal, limit int) ([]repository.ModerationItem, error) {
	if !isStaff(principal.Role) {
		log.Printf("moderation queue access denied: user=%s role=%s", principal.ID, principal.Role)
		return nil, apperror.Forbidden("insufficient role")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.dashboardRepo.ModerationQueue(ctx, limit)
}
