package model

import "time"

// RunStatus tracks a processing run through its lifecycle.
type RunStatus string

const (
	RunStatusStarted     RunStatus = "started"
	RunStatusDownloading RunStatus = "downloading"
	RunStatusConverting  RunStatus = "converting"
	RunStatusClassifying RunStatus = "classifying"
	RunStatusExtracting  RunStatus = "extracting"
	RunStatusRecording   RunStatus = "recording"
	RunStatusCompleted   RunStatus = "completed"
	RunStatusFailed      RunStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// StageIndex orders statuses along the pipeline. Terminal states sort last.
// Used by progress consumers that only rely on non-decreasing stage order.
func (s RunStatus) StageIndex() int {
	switch s {
	case RunStatusStarted:
		return 0
	case RunStatusDownloading:
		return 1
	case RunStatusConverting:
		return 2
	case RunStatusClassifying:
		return 3
	case RunStatusExtracting:
		return 4
	case RunStatusRecording:
		return 5
	case RunStatusCompleted, RunStatusFailed:
		return 6
	default:
		return -1
	}
}

// Run is the ephemeral state of one document processed end-to-end. It is
// created when a file id is submitted and discarded after the terminal
// transition; nothing about it survives a process restart.
type Run struct {
	FileID    string    `json:"file_id"`
	FilePath  string    `json:"file_path,omitempty"`
	Status    RunStatus `json:"status"`
	RecordID  string    `json:"record_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`
}
