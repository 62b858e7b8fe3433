package events

import (
	"sync"
)

var (
	globalBus     EventBus
	globalBusLock sync.RWMutex
)

// SetGlobalEventBus sets the global event bus instance
func SetGlobalEventBus(bus EventBus) {
	globalBusLock.Lock()
	defer globalBusLock.Unlock()
	globalBus = bus
}

// GetGlobalEventBus returns the global event bus instance
func GetGlobalEventBus() EventBus {
	globalBusLock.RLock()
	defer globalBusLock.RUnlock()
	return globalBus
}

// Publish publishes on the global bus when one is configured. A nil bus
// drops the event, so components can publish unconditionally.
func Publish(eventType EventType, data map[string]interface{}) {
	if bus := GetGlobalEventBus(); bus != nil {
		bus.Publish(eventType, data)
	}
}
