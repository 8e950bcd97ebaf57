package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackly/garage-backend/internal/clients/gcp"
	"github.com/hackly/garage-backend/internal/logger"
	"github.com/hackly/garage-backend/internal/prompts"
	"github.com/hackly/garage-backend/internal/repos"
	"github.com/hackly/garage-backend/internal/sse"
	"github.com/hackly/garage-backend/internal/types"
)

type CreatePromptInput struct {
	Title    string
	Content  string
	ParentID string
}

type AttachFileInput struct {
	PromptID     string
	OriginalName string
	ContentType  string
	SizeBytes    int64
	Body         io.Reader
}

// PromptService manages the live working set for the current round. Reads
// degrade to empty results on store failure; the consolidated view is always
// computed from a fresh snapshot.
type PromptService interface {
	Create(ctx context.Context, ownerID string, input CreatePromptInput) (*types.PromptRevision, error)
	Get(ctx context.Context, id string) (*types.PromptRevision, error)
	ListConsolidated(ctx context.Context) []*types.PromptRevision
	MarkCurrentBest(ctx context.Context, id string) error
	RefreshWorkingSet(ctx context.Context) error
	WorkingSet() *prompts.WorkingSet
	AttachFile(ctx context.Context, input AttachFileInput) (*types.PromptFile, error)
	ListFiles(ctx context.Context, promptID string) ([]*types.PromptFile, error)
}

type promptService struct {
	log        *logger.Logger
	promptRepo repos.PromptRepo
	fileRepo   repos.PromptFileRepo
	bucket     gcp.BucketService
	workingSet *prompts.WorkingSet
	broadcast  Broadcaster
}

func NewPromptService(baseLog *logger.Logger, promptRepo repos.PromptRepo, fileRepo repos.PromptFileRepo, bucket gcp.BucketService, workingSet *prompts.WorkingSet, broadcast Broadcaster) PromptService {
	return &promptService{
		log:        baseLog.With("service", "PromptService"),
		promptRepo: promptRepo,
		fileRepo:   fileRepo,
		bucket:     bucket,
		workingSet: workingSet,
		broadcast:  broadcast,
	}
}

func (ps *promptService) Create(ctx context.Context, ownerID string, input CreatePromptInput) (*types.PromptRevision, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, fmt.Errorf("prompt content required")
	}

	rev := &types.PromptRevision{
		ID:      uuid.NewString(),
		Title:   strings.TrimSpace(input.Title),
		Content: content,
	}
	if ownerID != "" {
		rev.OwnerID = &ownerID
	}

	// A revision created from an existing prompt inherits that prompt's
	// lineage root; a fresh prompt roots its own lineage via its id.
	if parentID := strings.TrimSpace(input.ParentID); parentID != "" {
		parent, err := ps.promptRepo.GetByID(ctx, nil, parentID)
		if err != nil {
			return nil, fmt.Errorf("parent prompt not found: %w", err)
		}
		rev.ParentID = &parent.ID
		root := parent.RootID()
		rev.BranchRootID = &root
	}

	created, err := ps.promptRepo.Create(ctx, nil, []*types.PromptRevision{rev})
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt revision: %w", err)
	}

	if err := ps.RefreshWorkingSet(ctx); err != nil {
		ps.log.Warn("Working set refresh failed after create", "error", err)
	}
	if ps.broadcast != nil {
		ps.broadcast.Broadcast(sse.SSEMessage{
			Channel: sse.ChannelPrompts,
			Event:   sse.SSEEventPromptCreated,
			Data:    created[0],
		})
	}
	return created[0], nil
}

func (ps *promptService) Get(ctx context.Context, id string) (*types.PromptRevision, error) {
	return ps.promptRepo.GetByID(ctx, nil, id)
}

// ListConsolidated returns the best revision per lineage from a fresh
// snapshot. A store failure serves the previous snapshot instead of an error.
func (ps *promptService) ListConsolidated(ctx context.Context) []*types.PromptRevision {
	if err := ps.RefreshWorkingSet(ctx); err != nil {
		ps.log.Warn("Working set refresh failed, serving cached snapshot", "error", err)
	}
	return prompts.Consolidate(ps.workingSet.Snapshot())
}

// MarkCurrentBest pins one revision as its lineage's winner, clearing the flag
// on its siblings first.
func (ps *promptService) MarkCurrentBest(ctx context.Context, id string) error {
	rev, err := ps.promptRepo.GetByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("prompt not found: %w", err)
	}
	siblings, err := ps.promptRepo.ListByRoot(ctx, nil, rev.RootID())
	if err != nil {
		return fmt.Errorf("failed to load lineage: %w", err)
	}
	for _, s := range siblings {
		if s.ID == rev.ID || !s.IsCurrentBest {
			continue
		}
		if err := ps.promptRepo.UpdateFields(ctx, nil, s.ID, map[string]any{"is_current_best": false}); err != nil {
			return fmt.Errorf("failed to clear current best flag: %w", err)
		}
	}
	if err := ps.promptRepo.UpdateFields(ctx, nil, rev.ID, map[string]any{"is_current_best": true}); err != nil {
		return fmt.Errorf("failed to set current best flag: %w", err)
	}
	if err := ps.RefreshWorkingSet(ctx); err != nil {
		ps.log.Warn("Working set refresh failed after flag change", "error", err)
	}
	if ps.broadcast != nil {
		ps.broadcast.Broadcast(sse.SSEMessage{
			Channel: sse.ChannelPrompts,
			Event:   sse.SSEEventPromptUpdated,
			Data:    map[string]any{"prompt_id": rev.ID},
		})
	}
	return nil
}

func (ps *promptService) RefreshWorkingSet(ctx context.Context) error {
	all, err := ps.promptRepo.ListAll(ctx, nil)
	if err != nil {
		return err
	}
	ps.workingSet.ReplaceAll(all)
	return nil
}

func (ps *promptService) WorkingSet() *prompts.WorkingSet {
	return ps.workingSet
}

func (ps *promptService) AttachFile(ctx context.Context, input AttachFileInput) (*types.PromptFile, error) {
	if ps.bucket == nil {
		return nil, fmt.Errorf("file storage not configured")
	}
	if strings.TrimSpace(input.PromptID) == "" {
		return nil, fmt.Errorf("prompt id required")
	}
	if _, err := ps.promptRepo.GetByID(ctx, nil, input.PromptID); err != nil {
		return nil, fmt.Errorf("prompt not found: %w", err)
	}

	file := &types.PromptFile{
		ID:           uuid.NewString(),
		PromptID:     input.PromptID,
		OriginalName: strings.TrimSpace(input.OriginalName),
		ContentType:  input.ContentType,
		SizeBytes:    input.SizeBytes,
		Status:       "uploaded",
	}
	file.StorageKey = fmt.Sprintf("prompt_files/%s/%d_%s", input.PromptID, time.Now().UnixNano(), file.OriginalName)

	if err := ps.bucket.UploadFile(ctx, gcp.BucketCategoryAttachment, file.StorageKey, input.Body); err != nil {
		return nil, fmt.Errorf("failed to upload prompt file: %w", err)
	}
	created, err := ps.fileRepo.Create(ctx, nil, []*types.PromptFile{file})
	if err != nil {
		// Orphaned object; clean up best effort.
		if dErr := ps.bucket.DeleteFile(ctx, gcp.BucketCategoryAttachment, file.StorageKey); dErr != nil {
			ps.log.Warn("Failed to delete orphaned prompt file object", "key", file.StorageKey, "error", dErr)
		}
		return nil, fmt.Errorf("failed to record prompt file: %w", err)
	}
	return created[0], nil
}

func (ps *promptService) ListFiles(ctx context.Context, promptID string) ([]*types.PromptFile, error) {
	return ps.fileRepo.ListByPromptID(ctx, nil, promptID)
}
