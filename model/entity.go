package model

import (
	"time"

	"github.com/google/uuid"
)

// Entity is a persisted registry entry: one surface form of a label with its mentions.
type Entity struct {
	ID        int64     `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Label     string    `json:"entity_label"`
	Name      string    `json:"name"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	Mentions  []Mention `json:"mentions,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
