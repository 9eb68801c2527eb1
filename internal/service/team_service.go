package service

import (
	"context"
	"regexp"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/logger"

	"github.com/rs/zerolog"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type TeamService struct {
	store types.Store
	log   zerolog.Logger
}

func NewTeamService(store types.Store, logger *logger.Logger) *TeamService {
	return &TeamService{
		store: store,
		log:   logger.GetLogger("team-service"),
	}
}

func (s *TeamService) List(ctx context.Context) ([]*models.TeamMember, error) {
	return s.store.ListMembers(ctx)
}

// Invite adds a member. Duplicate usernames are allowed.
func (s *TeamService) Invite(ctx context.Context, username, email, org string) (*models.TeamMember, error) {
	if username == "" || !emailPattern.MatchString(email) {
		return nil, ErrInvalidInvite
	}
	if org == "" {
		org = models.DefaultOrg
	}

	member := &models.TeamMember{Username: username, Email: email, Org: org}
	if err := s.store.CreateMember(ctx, member); err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("id", member.ID).
		Str("username", username).
		Str("org", org).
		Msg("Member invited")
	return member, nil
}

// Offboard marks the member not working after handing every task it holds
// to reassignTo, or to the team when reassignTo is empty. It returns the
// number of tasks moved.
func (s *TeamService) Offboard(ctx context.Context, id uint, reassignTo string) (int64, error) {
	member, err := s.store.GetMember(ctx, id)
	if err != nil {
		return 0, err
	}

	to, err := resolveAssignee(ctx, s.store, reassignTo)
	if err != nil {
		return 0, err
	}
	if to.Name == member.Username && (to.ID == nil || *to.ID == member.ID) {
		s.log.Warn().
			Uint("id", id).
			Str("username", member.Username).
			Msg("Offboarding member onto itself; its tasks stay assigned to it")
	}

	n, err := s.store.OffboardMember(ctx, id, to)
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Uint("id", id).
		Str("username", member.Username).
		Str("reassigned_to", to.Name).
		Int64("reassigned", n).
		Msg("Member offboarded")
	return n, nil
}

// Remove deletes a member that no task references. It fails with
// types.ErrMemberAssigned otherwise.
func (s *TeamService) Remove(ctx context.Context, id uint) error {
	if err := s.store.DeleteMemberIfUnassigned(ctx, id); err != nil {
		return err
	}
	s.log.Info().Uint("id", id).Msg("Member removed")
	return nil
}
