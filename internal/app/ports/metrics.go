package ports

type CommandMetrics interface {
	RecordSuccess(command string)
	RecordRejected(command string)
	RecordConflict()
	RecordFailure()
}
