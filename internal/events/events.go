package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
)

const (
	// DatasetExchange 是 fanout 交换机，每个 api 实例都会收到重新加载的通知
	DatasetExchange = "dataset_events"
	EmailQueue      = "email_queue"
)

// DeclareTopology 声明交换机和邮件队列
func DeclareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		DatasetExchange, // 交换机名称
		"fanout",        // 类型
		true,            // 是否持久化
		false,           // 是否自动删除
		false,           // 是否为内部交换机
		false,           // 是否不等待
		nil,             // 额外参数
	); err != nil {
		return err
	}

	_, err := ch.QueueDeclare(
		EmailQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	return err
}

// BindReloadQueue 为当前实例声明一个独占的临时队列并绑定到 DatasetExchange
func BindReloadQueue(ch *amqp.Channel) (string, error) {
	q, err := ch.QueueDeclare(
		"",    // 名称由 RabbitMQ 分配
		false, // 不持久化
		true,  // 连接断开后自动删除
		true,  // 独占
		false,
		nil,
	)
	if err != nil {
		return "", err
	}

	if err := ch.QueueBind(q.Name, "", DatasetExchange, false, nil); err != nil {
		return "", err
	}

	return q.Name, nil
}

type Publisher struct {
	ch      *amqp.Channel
	timeout time.Duration
}

func NewPublisher(ch *amqp.Channel, timeout time.Duration) *Publisher {
	return &Publisher{ch: ch, timeout: timeout}
}

func (p *Publisher) PublishReload(reason string) error {
	body, err := json.Marshal(domain.ReloadMessage{
		Reason:      reason,
		RequestedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	return p.publish(DatasetExchange, "", body)
}

func (p *Publisher) PublishMail(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.publish("", EmailQueue, body)
}

func (p *Publisher) publish(exchange, key string, body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		exchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
