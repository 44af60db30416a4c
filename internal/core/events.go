package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumipallolabs/treescan/internal/model"
	"github.com/lumipallolabs/treescan/internal/scanner"
)

// Event represents a state change from the controller
type Event interface {
	isEvent()
}

// ScanStartedEvent is emitted when a fresh scan begins
type ScanStartedEvent struct {
	SessionID uuid.UUID
	Root      string
	Pattern   string
	Tree      *model.Node // empty root node the scan grows
}

func (ScanStartedEvent) isEvent() {}

// NodeCreatedEvent is emitted once per node added to the tree, in creation
// order. Parent is the directory whose children gained Node.
type NodeCreatedEvent struct {
	Parent *model.Node
	Node   *model.Node
}

func (NodeCreatedEvent) isEvent() {}

// ScanProgressEvent is emitted during scanning
type ScanProgressEvent struct {
	scanner.Progress
}

func (ScanProgressEvent) isEvent() {}

// ElapsedEvent carries a clock sample
type ElapsedEvent struct {
	Elapsed time.Duration
}

func (ElapsedEvent) isEvent() {}

// PhaseChangedEvent is emitted when the controller changes phase
type PhaseChangedEvent struct {
	Phase ScanPhase
	Label string // start/pause button caption for the new phase
}

func (PhaseChangedEvent) isEvent() {}

// ScanCompletedEvent is emitted when every file has been scanned
type ScanCompletedEvent struct {
	Root    *model.Node
	Counts  model.FindAndAll
	Elapsed time.Duration
}

func (ScanCompletedEvent) isEvent() {}

// ErrorEvent is emitted when a scan fails
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) isEvent() {}
