package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumipallolabs/treescan/internal/matcher"
	"github.com/lumipallolabs/treescan/internal/model"
)

// ScanPhase represents where the controller is in its lifecycle
type ScanPhase int

const (
	PhaseIdle ScanPhase = iota
	PhaseRunning
	PhasePaused
	PhaseCompleted
	PhaseCancelled
)

// String returns a human-readable phase name
func (p ScanPhase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRunning:
		return "Scanning"
	case PhasePaused:
		return "Paused"
	case PhaseCompleted:
		return "Complete"
	case PhaseCancelled:
		return "Cancelled"
	default:
		return ""
	}
}

// ActionLabel is the caption for the start/pause button in this phase
func (p ScanPhase) ActionLabel() string {
	switch p {
	case PhaseRunning:
		return "Pause"
	case PhasePaused:
		return "Continue"
	default:
		return "Start"
	}
}

// ScanState is a read-only snapshot of the controller
type ScanState struct {
	Phase       ScanPhase
	SessionID   uuid.UUID
	Root        string
	Pattern     string
	Syntax      matcher.Syntax
	CurrentPath string
	Counts      model.FindAndAll
	StartTime   time.Time
	Elapsed     time.Duration
	Err         error // last fault, cleared by the next fresh start
	Watching    bool
}

// IsScanning returns true while the scan loop is running
func (s ScanState) IsScanning() bool {
	return s.Phase == PhaseRunning
}
