package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// DefaultKafkaTopic tópico si no se configura otro.
const DefaultKafkaTopic = "inventario.auditoria"

// KafkaNotifier escribe cada alerta en un tópico de Kafka, con el servicio como key
// para que las alertas de una instancia queden en la misma partición.
type KafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier construye el writer. brokers no puede estar vacío.
func NewKafkaNotifier(brokers []string, topic string) (*KafkaNotifier, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: sin brokers")
	}
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w}, nil
}

// NotifyAudit escribe la alerta y espera la confirmación de los brokers.
func (n *KafkaNotifier) NotifyAudit(ctx context.Context, alert dto.AuditAlertDTO) error {
	msg, err := alertMessage(alert)
	if err != nil {
		return err
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("escribir en kafka %s: %w", n.writer.Topic, err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

func alertMessage(alert dto.AuditAlertDTO) (kafka.Message, error) {
	value, err := json.Marshal(alert)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("serializar alerta: %w", err)
	}
	return kafka.Message{
		Key:   []byte(alert.Service),
		Value: value,
		Time:  alert.GeneratedAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte("inventory.audit")},
		},
	}, nil
}
