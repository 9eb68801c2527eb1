package service

import (
	"context"
	"errors"
	"fmt"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"
)

// resolveAssignee turns a display name into an assignment target. Empty and
// "team" map to the team sentinel; a known username gets the member's id;
// anything else is kept as a bare name.
func resolveAssignee(ctx context.Context, store types.Store, name string) (models.Assignee, error) {
	if name == "" || name == models.TeamAssignee {
		return models.TeamAssigneeTarget(), nil
	}
	member, err := store.FindMemberByUsername(ctx, name)
	if errors.Is(err, types.ErrNotFound) {
		return models.Assignee{Name: name}, nil
	}
	if err != nil {
		return models.Assignee{}, fmt.Errorf("resolving assignee: %w", err)
	}
	return models.AssigneeFor(member), nil
}
