package service

import (
	"context"
	"encoding/json"
	"fmt"

	"tourportal/internal/auth"
	"tourportal/internal/model"
	"tourportal/internal/repository"
)

// AuditSnapshot is what a mutation hands back to the pipeline: the target id
// plus full before/after attribute maps. Creates carry After only, deletes
// Before only, updates both.
type AuditSnapshot struct {
	TargetID string
	Before   interface{}
	After    interface{}
}

// AuditPipeline is the single path every mutating operation goes through: the
// mutation and its audit entry commit in one transaction, so a failed audit
// write rolls the mutation back and a crash cannot leave a change unaudited.
type AuditPipeline struct {
	txManager repository.TransactionManager
	auditRepo repository.AuditRepository
}

func NewAuditPipeline(txManager repository.TransactionManager, auditRepo repository.AuditRepository) *AuditPipeline {
	return &AuditPipeline{txManager: txManager, auditRepo: auditRepo}
}

// Execute runs mutate inside a transaction and appends exactly one audit
// entry for it. A nil actor (system/guest action) is valid.
func (p *AuditPipeline) Execute(ctx context.Context, actor auth.Principal, action, module string, mutate func(txCtx context.Context) (AuditSnapshot, error)) error {
	return p.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		snapshot, err := mutate(txCtx)
		if err != nil {
			return err
		}

		entry := &model.AuditLog{
			ActorID:    actor.ActorID(),
			Action:     action,
			Module:     module,
			BeforeJSON: snapshotJSON(snapshot.Before),
			AfterJSON:  snapshotJSON(snapshot.After),
		}
		if snapshot.TargetID != "" {
			targetID := snapshot.TargetID
			entry.TargetID = &targetID
		}

		if err := p.auditRepo.Log(txCtx, entry); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
}

// snapshotJSON marshals a full entity snapshot to a nullable JSON blob.
func snapshotJSON(v interface{}) *string {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}
