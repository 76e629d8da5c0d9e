package models

import (
	"strings"
	"time"
)

// Mission is the top-level trackable unit of work. Its completed flag is
// recomputed from tasks on every read and is never persisted.
type Mission struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"-"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Tasks       []Task    `json:"tasks" db:"-"`
	OperationID *int64    `json:"operationId,omitempty" db:"operation_id"`
}

// Task is a weighted, completable sub-item of a Mission. Difficulty is 1-5
// through validated paths; 0 is tolerated on read as "unknown".
type Task struct {
	ID         int64  `json:"id" db:"id"`
	MissionID  int64  `json:"-" db:"mission_id"`
	Title      string `json:"title" db:"title"`
	Difficulty int    `json:"difficulty" db:"difficulty"`
	Completed  bool   `json:"completed" db:"completed"`
}

type CreateMissionRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2048"`
}

// UpdateMissionRequest is a field-by-field patch. Absent fields keep their
// prior value; a patch carrying no recognized field is rejected.
type UpdateMissionRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2048"`
}

func (r UpdateMissionRequest) HasFields() bool {
	return r.Title != nil || r.Description != nil
}

// Apply merges the patch into the mission.
func (r UpdateMissionRequest) Apply(m *Mission) {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
}

type CreateTaskRequest struct {
	Title      string `json:"title" validate:"required,max=255"`
	Difficulty *int   `json:"difficulty" validate:"omitempty,min=1,max=5"`
	Completed  bool   `json:"completed"`
}

type UpdateTaskRequest struct {
	Title      *string `json:"title" validate:"omitempty,max=255"`
	Difficulty *int    `json:"difficulty" validate:"omitempty,min=1,max=5"`
	Completed  *bool   `json:"completed"`
}

func (r UpdateTaskRequest) HasFields() bool {
	return r.Title != nil || r.Difficulty != nil || r.Completed != nil
}

func (r UpdateTaskRequest) Apply(t *Task) {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Difficulty != nil {
		t.Difficulty = *r.Difficulty
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
}

// IsBlank reports whether a user-supplied title is empty after trimming.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidDifficulty reports whether a user-set difficulty is in range. The
// validator tag misses an explicit 0 (omitempty treats it as absent), so
// write paths check here as well.
func ValidDifficulty(d int) bool {
	return d >= 1 && d <= 5
}

// MissionSummary holds the aggregate counts shown on the dashboard header.
type MissionSummary struct {
	TotalMissions     int `json:"totalMissions"`
	CompletedMissions int `json:"completedMissions"`
	TotalObjectives   int `json:"totalObjectives"`
}
