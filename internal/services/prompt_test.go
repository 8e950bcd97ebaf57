package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/hackly/garage-backend/internal/prompts"
	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/repos/testutil"
)

func newPromptService(t *testing.T) (PromptService, *gorm.DB, context.Context) {
	t.Helper()
	ctx := context.Background()
	log := testutil.Logger(t)
	tx := testutil.Tx(t, testutil.DB(t))
	svc := NewPromptService(log, repos.NewPromptRepo(tx, log), repos.NewPromptFileRepo(tx, log), nil, prompts.NewWorkingSet(), nopBus{})
	return svc, tx, ctx
}

func TestCreateRootsOwnLineage(t *testing.T) {
	svc, _, ctx := newPromptService(t)

	rev, err := svc.Create(ctx, "", CreatePromptInput{Title: "t", Content: "write a poem"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rev.BranchRootID != nil {
		t.Fatalf("fresh prompt has branch_root_id %v, want nil", *rev.BranchRootID)
	}
	if rev.RootID() != rev.ID {
		t.Fatalf("root = %s, want own id %s", rev.RootID(), rev.ID)
	}
}

func TestCreateRevisionInheritsParentRoot(t *testing.T) {
	svc, _, ctx := newPromptService(t)

	parent, err := svc.Create(ctx, "", CreatePromptInput{Content: "v1"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := svc.Create(ctx, "", CreatePromptInput{Content: "v2", ParentID: parent.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.RootID() != parent.ID {
		t.Fatalf("child root = %s, want %s", child.RootID(), parent.ID)
	}

	grandchild, err := svc.Create(ctx, "", CreatePromptInput{Content: "v3", ParentID: child.ID})
	if err != nil {
		t.Fatalf("create grandchild: %v", err)
	}
	if grandchild.RootID() != parent.ID {
		t.Fatalf("grandchild root = %s, want lineage root %s", grandchild.RootID(), parent.ID)
	}
}

func TestCreateRejectsBlankContent(t *testing.T) {
	svc, _, ctx := newPromptService(t)

	if _, err := svc.Create(ctx, "", CreatePromptInput{Content: "   "}); err == nil {
		t.Fatal("expected error for blank content")
	}
}

func TestListConsolidatedCollapsesLineages(t *testing.T) {
	svc, tx, ctx := newPromptService(t)
	log := testutil.Logger(t)
	promptRepo := repos.NewPromptRepo(tx, log)

	parent, err := svc.Create(ctx, "", CreatePromptInput{Content: "v1"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := svc.Create(ctx, "", CreatePromptInput{Content: "v2", ParentID: parent.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	other, err := svc.Create(ctx, "", CreatePromptInput{Content: "unrelated"})
	if err != nil {
		t.Fatalf("create other: %v", err)
	}

	if err := promptRepo.UpdateFields(ctx, nil, child.ID, map[string]any{"score_total": 90.0}); err != nil {
		t.Fatalf("score child: %v", err)
	}
	if err := promptRepo.UpdateFields(ctx, nil, parent.ID, map[string]any{"score_total": 40.0}); err != nil {
		t.Fatalf("score parent: %v", err)
	}

	consolidated := svc.ListConsolidated(ctx)
	if len(consolidated) != 2 {
		t.Fatalf("len = %d, want 2", len(consolidated))
	}
	ids := map[string]bool{}
	for _, r := range consolidated {
		ids[r.ID] = true
	}
	if !ids[child.ID] || !ids[other.ID] {
		t.Fatalf("consolidated = %v, want child %s and other %s", ids, child.ID, other.ID)
	}
}

func TestMarkCurrentBestMovesFlagWithinLineage(t *testing.T) {
	svc, tx, ctx := newPromptService(t)
	log := testutil.Logger(t)
	promptRepo := repos.NewPromptRepo(tx, log)

	parent, err := svc.Create(ctx, "", CreatePromptInput{Content: "v1"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := svc.Create(ctx, "", CreatePromptInput{Content: "v2", ParentID: parent.ID})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := svc.MarkCurrentBest(ctx, parent.ID); err != nil {
		t.Fatalf("mark parent: %v", err)
	}
	if err := svc.MarkCurrentBest(ctx, child.ID); err != nil {
		t.Fatalf("mark child: %v", err)
	}

	gotParent, err := promptRepo.GetByID(ctx, nil, parent.ID)
	if err != nil {
		t.Fatalf("get parent: %v", err)
	}
	if gotParent.IsCurrentBest {
		t.Fatal("parent still flagged after child took over")
	}
	gotChild, err := promptRepo.GetByID(ctx, nil, child.ID)
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if !gotChild.IsCurrentBest {
		t.Fatal("child not flagged")
	}

	// The flagged revision wins consolidation regardless of score.
	if err := promptRepo.UpdateFields(ctx, nil, parent.ID, map[string]any{"score_total": 999.0}); err != nil {
		t.Fatalf("score parent: %v", err)
	}
	consolidated := svc.ListConsolidated(ctx)
	if len(consolidated) != 1 || consolidated[0].ID != child.ID {
		t.Fatalf("consolidated = %+v, want flagged child only", consolidated)
	}
}
