package models

import (
	"encoding/json"
	"time"
)

// WhiteboardState is the live whiteboard, stored as an opaque JSON blob.
type WhiteboardState struct {
	ID    uint            `gorm:"primaryKey;autoIncrement:false"`
	State json.RawMessage `gorm:"type:text;serializer:json"`
}

// WhiteboardSnapshot is an immutable capture of the whiteboard.
type WhiteboardSnapshot struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CanvasImage string          `json:"canvasImage" gorm:"type:text"`
	StickyNotes json.RawMessage `json:"stickyNotes" gorm:"type:text;serializer:json"`
	UpdatedAt   time.Time       `json:"updatedAt" gorm:"index"`
}

// Newer reports whether s sorts before other when listing most recent first.
func (s *WhiteboardSnapshot) Newer(other *WhiteboardSnapshot) bool {
	if !s.UpdatedAt.Equal(other.UpdatedAt) {
		return s.UpdatedAt.After(other.UpdatedAt)
	}
	return s.ID > other.ID
}
