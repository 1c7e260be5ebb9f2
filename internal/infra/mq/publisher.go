package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrderExchange = "order_exchange"

	OrderPlacedQueue = "order_placed_queue"
	OrderStatusQueue = "order_status_queue"

	OrderPlacedRoutingKey = "order.placed"
	OrderStatusRoutingKey = "order.status"
)

// 注文イベント。コミット後にpublishする（トランザクション内では呼ばない）
type OrderEvent struct {
	OrderID    int64  `json:"order_id"`
	TenantID   int64  `json:"tenant_id"`
	CustomerID int64  `json:"customer_id"`
	Status     string `json:"status"`
	Total      int64  `json:"total,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		OrderExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: ch}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, ev OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.channel.PublishWithContext(ctx,
		OrderExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// nilレシーバ安全。RABBITMQ_URL未設定時はpublisherがnilのまま動く
func (p *Publisher) OrderPlaced(ctx context.Context, ev OrderEvent) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, OrderPlacedRoutingKey, ev)
}

func (p *Publisher) OrderStatus(ctx context.Context, ev OrderEvent) error {
	if p == nil {
		return nil
	}
	return p.publish(ctx, OrderStatusRoutingKey, ev)
}
