package monitor_test

import (
	"context"
	"fmt"
	"time"

	"github.com/reugn/memwarn"
	"github.com/reugn/memwarn/loop"
	"github.com/reugn/memwarn/monitor"
)

type printDisplay struct{}

func (printDisplay) ShowReading(r memwarn.Reading)   { fmt.Printf("usage %.0f%%\n", r.Percent) }
func (printDisplay) ShowError(err error)             { fmt.Println("error:", err) }
func (printDisplay) ShowStatus(s memwarn.Status)     { fmt.Println("status:", s) }
func (printDisplay) ShowSettings(s memwarn.Settings) { fmt.Println("settings:", s) }

func ExampleController() {
	readings := []float64{70, 85, 90, 60, 95}
	reader := memwarn.MemoryReaderFunc(func(context.Context) (memwarn.Reading, error) {
		p := readings[0]
		readings = readings[1:]
		return memwarn.Reading{Percent: p}, nil
	})
	notifier := memwarn.NotifierFunc(func(n memwarn.Notification) error {
		fmt.Println("notify:", n.Body)
		return nil
	})

	scheduler := loop.NewManualScheduler()
	controller := monitor.NewController(reader, notifier, printDisplay{}, scheduler)

	controller.Start()
	scheduler.Advance(25 * time.Second)
	controller.Stop()

	// Output:
	// status: Running
	// usage 70%
	// usage 85%
	// notify: Memory usage has reached 85.0%, exceeding the configured threshold of 80.0%
	// usage 90%
	// usage 60%
	// usage 95%
	// notify: Memory usage has reached 95.0%, exceeding the configured threshold of 80.0%
	// status: Stopped
}
