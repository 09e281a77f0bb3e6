package batch

// Notifier receives progress and outcome notifications from a run. Calls are
// made synchronously from the goroutine executing Run.
type Notifier interface {
	// OnProgress is called once per input file after all its operations ran
	OnProgress(processed, total int)
	// OnCompleted is called once when the last file has been processed
	OnCompleted(succeeded, total int)
	// OnRejected is called when a run is refused before any file is touched
	OnRejected(reason error)
}

// NopNotifier ignores all notifications
type NopNotifier struct{}

func (NopNotifier) OnProgress(int, int)  {}
func (NopNotifier) OnCompleted(int, int) {}
func (NopNotifier) OnRejected(error)     {}
