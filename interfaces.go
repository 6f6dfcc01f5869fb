package memwarn

import "context"

// MemoryReader reads the instantaneous system memory utilization.
type MemoryReader interface {
	Read(ctx context.Context) (Reading, error)
}

// MemoryReaderFunc adapts a function to the MemoryReader interface.
type MemoryReaderFunc func(ctx context.Context) (Reading, error)

// Read calls f(ctx).
func (f MemoryReaderFunc) Read(ctx context.Context) (Reading, error) {
	return f(ctx)
}

// Notifier delivers desktop notifications.
type Notifier interface {
	Notify(n Notification) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification) error

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) error {
	return f(n)
}

// Display renders monitor output. Implementations must not block.
type Display interface {
	ShowReading(r Reading)
	ShowError(err error)
	ShowStatus(s Status)
	ShowSettings(s Settings)
}
