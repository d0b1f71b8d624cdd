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
	"tourportal/internal/scope"
	"tourportal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateFeeRuleRequest struct {
	FeeType       string `json:"fee_type" binding:"required,oneof=environmental_fee business_commission event_commission ad_promotion_fee"`
	ChargeBasis   string `json:"charge_basis" binding:"required,oneof=fixed percent"`
	Amount        string `json:"amount" binding:"required"`         // Decimal string, e.g. "5" or "50.00"
	MinimumAmount string `json:"minimum_amount"`                    // Optional floor
	Status        string `json:"status" binding:"omitempty,oneof=draft active inactive archived"`
	EffectiveFrom string `json:"effective_from" binding:"required"` // YYYY-MM-DD
	EffectiveTo   string `json:"effective_to"`                      // YYYY-MM-DD, nullable
	Description   string `json:"description"`
}

type UpdateFeeRuleRequest = CreateFeeRuleRequest

type FeeRuleResponse struct {
	ID            string  `json:"id"`
	FeeType       string  `json:"fee_type"`
	ChargeBasis   string  `json:"charge_basis"`
	Amount        string  `json:"amount"`
	MinimumAmount *string `json:"minimum_amount"`
	Status        string  `json:"status"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to"`
	Description   string  `json:"description"`
	CreatedAt     string  `json:"created_at"`
}

// FeeEstimate is a derived display value. It is recomputed on every read and
// never written back to the rule or any ledger.
type FeeEstimate struct {
	RuleID      string `json:"rule_id"`
	FeeType     string `json:"fee_type"`
	ChargeBasis string `json:"charge_basis"`
	Estimated   string `json:"estimated"`
}

type FeeSummaryResponse struct {
	From            string        `json:"from"`
	To              string        `json:"to"`
	CompletedOrders int64         `json:"completed_orders"`
	Revenue         string        `json:"revenue"`
	Estimates       []FeeEstimate `json:"estimates"`
}

// --- Interface ---

type FeeService interface {
	ListFeeRules(ctx context.Context) ([]FeeRuleResponse, error)
	CreateFeeRule(ctx context.Context, principal auth.Principal, req CreateFeeRuleRequest) (FeeRuleResponse, error)
	UpdateFeeRule(ctx context.Context, principal auth.Principal, id string, req UpdateFeeRuleRequest) (FeeRuleResponse, error)
	DeleteFeeRule(ctx context.Context, principal auth.Principal, id string) error
	OwnerFeeSummary(ctx context.Context, principal auth.Principal, from, to time.Time) (FeeSummaryResponse, error)
}

type feeService struct {
	feeRepo   repository.FeeRuleRepository
	orderRepo repository.OrderRepository
	resolver  scope.Resolver
	pipeline  *AuditPipeline
}

func NewFeeService(feeRepo repository.FeeRuleRepository, orderRepo repository.OrderRepository, resolver scope.Resolver, pipeline *AuditPipeline) FeeService {
	return &feeService{feeRepo: feeRepo, orderRepo: orderRepo, resolver: resolver, pipeline: pipeline}
}

// --- Pure estimation core ---

// EstimateFee evaluates one rule against a scoped aggregate.
// percent: revenue * amount / 100. fixed: amount * max(1, completed count),
// so a per-transaction charge is shown at least once even with zero completed
// orders. The optional minimum is a floor on the result. Rounded to 2 decimal
// places.
func EstimateFee(rule model.FeeRule, scopedRevenue decimal.Decimal, scopedCompletedOrderCount int64) decimal.Decimal {
	var estimated decimal.Decimal

	switch rule.ChargeBasis {
	case model.ChargeBasisPercent:
		estimated = scopedRevenue.Mul(rule.Amount.Div(decimal.NewFromInt(100)))
	case model.ChargeBasisFixed:
		count := scopedCompletedOrderCount
		if count < 1 {
			count = 1
		}
		estimated = rule.Amount.Mul(decimal.NewFromInt(count))
	default:
		estimated = decimal.Zero
	}

	if rule.MinimumAmount != nil && estimated.LessThan(*rule.MinimumAmount) {
		estimated = *rule.MinimumAmount
	}

	return estimated.Round(2)
}

// --- Implementation ---

// ListFeeRules is the admin catalog: every rule regardless of status, so
// draft and inactive rules stay reviewable before publication.
func (s *feeService) ListFeeRules(ctx context.Context) ([]FeeRuleResponse, error) {
	rules, err := s.feeRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fee rules: %w", err)
	}

	res := make([]FeeRuleResponse, 0, len(rules))
	for _, r := range rules {
		res = append(res, toFeeRuleResponse(r))
	}
	return res, nil
}

func (s *feeService) CreateFeeRule(ctx context.Context, principal auth.Principal, req CreateFeeRuleRequest) (FeeRuleResponse, error) {
	parsed, err := parseFeeRuleFields(req)
	if err != nil {
		return FeeRuleResponse{}, err
	}

	rule := model.FeeRule{
		FeeType:       req.FeeType,
		ChargeBasis:   req.ChargeBasis,
		Amount:        parsed.amount,
		MinimumAmount: parsed.minimum,
		Status:        parsed.status,
		EffectiveFrom: parsed.from,
		EffectiveTo:   parsed.to,
		Description:   req.Description,
	}

	err = s.pipeline.Execute(ctx, principal, model.AuditActionCreate, model.ModuleFeeRule, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.feeRepo.Create(txCtx, &rule); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to create fee rule: %w", err)
		}
		return AuditSnapshot{TargetID: rule.ID.String(), After: rule}, nil
	})
	if err != nil {
		return FeeRuleResponse{}, err
	}

	return toFeeRuleResponse(rule), nil
}

func (s *feeService) UpdateFeeRule(ctx context.Context, principal auth.Principal, id string, req UpdateFeeRuleRequest) (FeeRuleResponse, error) {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return FeeRuleResponse{}, apperror.Validation("invalid fee rule id")
	}

	rule, err := s.feeRepo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return FeeRuleResponse{}, apperror.NotFound("fee rule not found")
		}
		return FeeRuleResponse{}, fmt.Errorf("failed to fetch fee rule: %w", err)
	}

	parsed, err := parseFeeRuleFields(req)
	if err != nil {
		return FeeRuleResponse{}, err
	}

	before := *rule
	rule.FeeType = req.FeeType
	rule.ChargeBasis = req.ChargeBasis
	rule.Amount = parsed.amount
	rule.MinimumAmount = parsed.minimum
	rule.Status = parsed.status
	rule.EffectiveFrom = parsed.from
	rule.EffectiveTo = parsed.to
	rule.Description = req.Description

	err = s.pipeline.Execute(ctx, principal, model.AuditActionUpdate, model.ModuleFeeRule, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.feeRepo.Update(txCtx, rule); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to update fee rule: %w", err)
		}
		return AuditSnapshot{TargetID: rule.ID.String(), Before: before, After: *rule}, nil
	})
	if err != nil {
		return FeeRuleResponse{}, err
	}

	return toFeeRuleResponse(*rule), nil
}

func (s *feeService) DeleteFeeRule(ctx context.Context, principal auth.Principal, id string) error {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid fee rule id")
	}

	rule, err := s.feeRepo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("fee rule not found")
		}
		return fmt.Errorf("failed to fetch fee rule: %w", err)
	}

	return s.pipeline.Execute(ctx, principal, model.AuditActionDelete, model.ModuleFeeRule, func(txCtx context.Context) (AuditSnapshot, error) {
		if err := s.feeRepo.Delete(txCtx, ruleID); err != nil {
			return AuditSnapshot{}, fmt.Errorf("failed to delete fee rule: %w", err)
		}
		return AuditSnapshot{TargetID: rule.ID.String(), Before: *rule}, nil
	})
}

// OwnerFeeSummary evaluates the active commerce-fee subset against the
// caller's scoped completed-order aggregate for the half-open range [from, to).
func (s *feeService) OwnerFeeSummary(ctx context.Context, principal auth.Principal, from, to time.Time) (FeeSummaryResponse, error) {
	sc, err := s.resolver.Resolve(ctx, principal)
	if err != nil {
		return FeeSummaryResponse{}, err
	}
	if sc.IsEmpty() {
		log.Printf("denied access: principal %s role %s requested a fee summary without scope", principal.ID, principal.Role)
		return FeeSummaryResponse{}, apperror.Forbidden("no business scope for fee summary")
	}

	agg, err := s.orderRepo.CompletedTotals(ctx, sc, from, to)
	if err != nil {
		return FeeSummaryResponse{}, fmt.Errorf("failed to aggregate completed orders: %w", err)
	}

	rules, err := s.feeRepo.ListActiveCommerce(ctx, time.Now())
	if err != nil {
		return FeeSummaryResponse{}, fmt.Errorf("failed to fetch active fee rules: %w", err)
	}

	estimates := make([]FeeEstimate, 0, len(rules))
	for _, rule := range rules {
		estimates = append(estimates, FeeEstimate{
			RuleID:      rule.ID.String(),
			FeeType:     rule.FeeType,
			ChargeBasis: rule.ChargeBasis,
			Estimated:   EstimateFee(rule, agg.Revenue, agg.OrderCount).StringFixed(2),
		})
	}

	return FeeSummaryResponse{
		From:            from.Format("2006-01-02"),
		To:              to.Format("2006-01-02"),
		CompletedOrders: agg.OrderCount,
		Revenue:         agg.Revenue.StringFixed(2),
		Estimates:       estimates,
	}, nil
}

// --- Helpers ---

type parsedFeeRule struct {
	amount  decimal.Decimal
	minimum *decimal.Decimal
	status  string
	from    time.Time
	to      *time.Time
}

func parseFeeRuleFields(req CreateFeeRuleRequest) (parsedFeeRule, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return parsedFeeRule{}, apperror.Validation("invalid amount: must be a non-negative decimal")
	}

	var minimum *decimal.Decimal
	if req.MinimumAmount != "" {
		m, err := decimal.NewFromString(req.MinimumAmount)
		if err != nil || m.IsNegative() {
			return parsedFeeRule{}, apperror.Validation("invalid minimum_amount: must be a non-negative decimal")
		}
		minimum = &m
	}

	status := req.Status
	if status == "" {
		status = model.FeeRuleStatusDraft
	}

	from, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return parsedFeeRule{}, apperror.Validation("invalid effective_from date format (expected YYYY-MM-DD)")
	}

	var to *time.Time
	if req.EffectiveTo != "" {
		t, err := time.Parse("2006-01-02", req.EffectiveTo)
		if err != nil {
			return parsedFeeRule{}, apperror.Validation("invalid effective_to date format (expected YYYY-MM-DD)")
		}
		if t.Before(from) {
			return parsedFeeRule{}, apperror.Validation("effective_to must not precede effective_from")
		}
		to = &t
	}

	return parsedFeeRule{amount: amount, minimum: minimum, status: status, from: from, to: to}, nil
}

func toFeeRuleResponse(r model.FeeRule) FeeRuleResponse {
	resp := FeeRuleResponse{
		ID:            r.ID.String(),
		FeeType:       r.FeeType,
		ChargeBasis:   r.ChargeBasis,
		Amount:        r.Amount.StringFixed(2),
		Status:        r.Status,
		EffectiveFrom: r.EffectiveFrom.Format("2006-01-02"),
		Description:   r.Description,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.MinimumAmount != nil {
		m := r.MinimumAmount.StringFixed(2)
		resp.MinimumAmount = &m
	}
	if r.EffectiveTo != nil {
		t := r.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &t
	}
	return resp
}
