package ingestion

import (
	"github.com/DIMO-Network/whatsapp-webhook/internal/whatsapp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whatsapp_webhook_notifications_total",
		Help: "Event notifications received, by processing outcome.",
	}, []string{"outcome"})

	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whatsapp_webhook_messages_total",
		Help: "Inbound messages extracted from notifications, by message type.",
	}, []string{"type"})
)

// typeLabel bounds the label values to the declared message types.
func typeLabel(messageType string) string {
	switch messageType {
	case whatsapp.TypeText, whatsapp.TypeImage, whatsapp.TypeVideo, whatsapp.TypeAudio, whatsapp.TypeDocument:
		return messageType
	default:
		return "other"
	}
}
