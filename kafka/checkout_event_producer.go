package kafka

import (
	"context"
	"encoding/json"
	"log"

	"checkout-service/models"

	"github.com/segmentio/kafka-go"
)

type CheckoutEventProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewCheckoutEventProducer(brokers []string, topic string) *CheckoutEventProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Printf("[CheckoutService][KafkaProducer] initialized topic=%s brokers=%v", topic, brokers)
	return &CheckoutEventProducer{writer: w, topic: topic}
}

func (p *CheckoutEventProducer) SendCheckoutEvent(event models.CheckoutCompletedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	}

	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		log.Printf("[CheckoutService] ❌ Failed to send checkout event: %v", err)
		return err
	}

	log.Printf("[CheckoutService] 📤 Sent CheckoutCompletedEvent: order=%s", event.OrderID)
	return nil
}

func (p *CheckoutEventProducer) Close() {
	_ = p.writer.Close()
	log.Println("[CheckoutService] 🔌 Kafka producer closed")
}
