package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"tracker-backend/internal/models"
	"tracker-backend/internal/store/types"
	"tracker-backend/pkg/logger"

	"github.com/rs/zerolog"
)

var emptyState = json.RawMessage(`{}`)

type WhiteboardService struct {
	store types.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewWhiteboardService(store types.Store, logger *logger.Logger) *WhiteboardService {
	return &WhiteboardService{
		store: store,
		log:   logger.GetLogger("whiteboard-service"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// State returns the live whiteboard document, or {} when none was saved.
func (s *WhiteboardService) State(ctx context.Context) (json.RawMessage, error) {
	state, err := s.store.GetWhiteboardState(ctx)
	if errors.Is(err, types.ErrNotFound) {
		return emptyState, nil
	}
	if err != nil {
		return nil, err
	}
	if len(state.State) == 0 {
		return emptyState, nil
	}
	return state.State, nil
}

func (s *WhiteboardService) SaveState(ctx context.Context, doc json.RawMessage) error {
	return s.store.SaveWhiteboardState(ctx, &models.WhiteboardState{State: doc})
}

// SaveSnapshot appends a snapshot and returns its id.
func (s *WhiteboardService) SaveSnapshot(ctx context.Context, canvasImage string, stickyNotes json.RawMessage) (uint, error) {
	notes := bytes.TrimSpace(stickyNotes)
	if canvasImage == "" || falsy(notes) {
		return 0, ErrInvalidSnapshot
	}

	snapshot := &models.WhiteboardSnapshot{
		CanvasImage: canvasImage,
		StickyNotes: notes,
		UpdatedAt:   s.now(),
	}
	if err := s.store.CreateSnapshot(ctx, snapshot); err != nil {
		return 0, err
	}

	s.log.Debug().Uint("id", snapshot.ID).Int("image_bytes", len(canvasImage)).Msg("Whiteboard snapshot saved")
	return snapshot.ID, nil
}

// falsy reports whether raw is a JSON value clients treat as absent: null,
// false, "" or zero.
func falsy(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "false", `""`:
		return true
	}
	if c := raw[0]; c == '-' || (c >= '0' && c <= '9') {
		f, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && f == 0
	}
	return false
}

// Latest returns the most recent snapshot, or nil when there is none.
func (s *WhiteboardService) Latest(ctx context.Context) (*models.WhiteboardSnapshot, error) {
	snapshot, err := s.store.LatestSnapshot(ctx)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
