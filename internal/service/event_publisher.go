package service

import (
	"encoding/json"

	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// publishEvent puts one typed event on the in-process bus. Publish
// failures are logged, never propagated: the bus is a side channel and
// must not fail the primary operation.
func publishEvent(pubSub *gochannel.GoChannel, log logger.ILogger, module string, event events.Event) {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		log.Error(module, "Failed to marshal event", map[string]interface{}{"type": event.EventType(), "error": err.Error()})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := pubSub.Publish(event.EventType(), msg); err != nil {
		log.Error(module, "Failed to publish event", map[string]interface{}{"type": event.EventType(), "error": err.Error()})
	}
}
