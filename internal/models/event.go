package models

import "time"

// FileEvent represents a change detected on a watched configuration file
type FileEvent struct {
	Type      string    `json:"type"` // "create", "modify", "delete"
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}
