package inmemory

import (
	"sync"
)

type CommandCounts struct {
	Success  uint64 `json:"success"`
	Rejected uint64 `json:"rejected"`
}

type Snapshot struct {
	CommandTotal    uint64                   `json:"command_total"`
	CommandSuccess  uint64                   `json:"command_success"`
	CommandRejected uint64                   `json:"command_rejected"`
	CommandConflict uint64                   `json:"command_conflict"`
	CommandFailure  uint64                   `json:"command_failure"`
	ByCommand       map[string]CommandCounts `json:"by_command"`
}

type Recorder struct {
	mu        sync.Mutex
	success   uint64
	rejected  uint64
	conflict  uint64
	failure   uint64
	byCommand map[string]CommandCounts
}

func NewRecorder() *Recorder {
	return &Recorder{
		byCommand: map[string]CommandCounts{},
	}
}

func (r *Recorder) RecordSuccess(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	c := r.byCommand[command]
	c.Success++
	r.byCommand[command] = c
}

func (r *Recorder) RecordRejected(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	c := r.byCommand[command]
	c.Rejected++
	r.byCommand[command] = c
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CommandSuccess:  r.success,
		CommandRejected: r.rejected,
		CommandConflict: r.conflict,
		CommandFailure:  r.failure,
		CommandTotal:    r.success + r.rejected + r.conflict + r.failure,
		ByCommand:       make(map[string]CommandCounts, len(r.byCommand)),
	}
	for k, v := range r.byCommand {
		out.ByCommand[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
