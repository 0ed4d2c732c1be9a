package mqtt

import (
	"fmt"

	"github.com/PancyStudios/WardenGo/pkg/logger"
	"github.com/PancyStudios/WardenGo/pkg/warden"
)

// Publisher forwards moderation events to the broker, one topic per event
// type (warden/warning.issued, warden/warning.edited, ...).
type Publisher struct {
	mc *MqttCommunicator
}

// NewPublisher creates a Publisher on top of the communicator.
func NewPublisher(mc *MqttCommunicator) *Publisher {
	return &Publisher{mc: mc}
}

// PublishEvent implements warden.EventSink. Delivery is best-effort: a
// broker outage never fails the moderation action itself.
func (p *Publisher) PublishEvent(e warden.Event) {
	if p.mc == nil || !p.mc.IsConnected() {
		return
	}
	topic := "warden/" + e.Type
	if err := p.mc.Publish(topic, e); err != nil {
		logger.Warn(fmt.Sprintf("Failed to publish %s: %v", topic, err), "MQTT")
	}
}
