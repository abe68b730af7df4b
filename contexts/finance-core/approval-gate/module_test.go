package approvalgate_test

import (
	"context"
	"testing"

	approvalgate "solutionshub/contexts/finance-core/approval-gate"
	"solutionshub/contexts/finance-core/approval-gate/domain/entities"
	httptransport "solutionshub/contexts/finance-core/approval-gate/transport/http"
)

func TestEvaluateTierHandlerWithoutActorOmitsAuthorization(t *testing.T) {
	module := approvalgate.NewInMemoryModule(nil, 300000, nil)

	resp, err := module.Handler.EvaluateTierHandler(context.Background(), httptransport.EvaluateTierRequest{
		Value: 500000,
	})
	if err != nil {
		t.Fatalf("evaluate tier failed: %v", err)
	}
	if resp.Tier != string(entities.TierTop) {
		t.Fatalf("expected top tier, got %s", resp.Tier)
	}
	if resp.Authorized != nil {
		t.Fatalf("expected no authorization verdict without actor")
	}
}

func TestEvaluateTierHandlerReportsActorAuthorization(t *testing.T) {
	module := approvalgate.NewInMemoryModule([]entities.StaffProfile{
		{UserID: "admin-1", Role: entities.StaffRoleInstitutionAdmin},
		{UserID: "head-1", Role: entities.StaffRoleDepartmentHead, DepartmentID: "dept-1"},
	}, 300000, nil)
	ctx := context.Background()

	allowed, err := module.Handler.EvaluateTierHandler(ctx, httptransport.EvaluateTierRequest{
		Value:   500000,
		ActorID: "admin-1",
	})
	if err != nil {
		t.Fatalf("evaluate tier failed: %v", err)
	}
	if allowed.Authorized == nil || !*allowed.Authorized {
		t.Fatalf("expected admin authorized at top tier")
	}

	denied, err := module.Handler.EvaluateTierHandler(ctx, httptransport.EvaluateTierRequest{
		Value:        500000,
		ActorID:      "head-1",
		DepartmentID: "dept-1",
	})
	if err != nil {
		t.Fatalf("evaluate tier failed: %v", err)
	}
	if denied.Authorized == nil || *denied.Authorized {
		t.Fatalf("expected department head denied at top tier")
	}
}

func TestEvaluateTierHandlerRejectsNegativeValue(t *testing.T) {
	module := approvalgate.NewInMemoryModule(nil, 300000, nil)

	if _, err := module.Handler.EvaluateTierHandler(context.Background(), httptransport.EvaluateTierRequest{
		Value: -1,
	}); err == nil {
		t.Fatalf("expected error for negative value")
	}
}
