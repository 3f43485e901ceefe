package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/catalog"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/hours"
)

type Reloader interface {
	Reload() (*catalog.Snapshot, error)
}

type MailPublisher interface {
	PublishMail(msg domain.MailMessage) error
}

// ReloadWorker 收到通知后重新加载餐厅数据，加载失败时发送报警邮件
type ReloadWorker struct {
	reloader Reloader
	mailer   MailPublisher
	alertTo  string
	logger   *slog.Logger
}

func NewReloadWorker(reloader Reloader, mailer MailPublisher, alertTo string, logger *slog.Logger) *ReloadWorker {
	return &ReloadWorker{
		reloader: reloader,
		mailer:   mailer,
		alertTo:  alertTo,
		logger:   logger,
	}
}

// Handle 处理一条通知，返回的错误只用于日志和测试，消息总是会被确认
func (w *ReloadWorker) Handle(body []byte) error {
	msg := domain.ReloadMessage{}
	if err := json.Unmarshal(body, &msg); err != nil {
		w.logger.Error("重新加载通知反序列化失败", slog.String("error", err.Error()))
		return err
	}

	snapshot, err := w.reloader.Reload()
	if err != nil {
		w.logger.Error("重新加载餐厅数据失败，继续使用旧数据", slog.String("reason", msg.Reason), slog.String("error", err.Error()))
		w.alert(err)
		return err
	}

	w.logger.Info("已重新加载餐厅数据",
		slog.String("reason", msg.Reason),
		slog.Int64("generation", snapshot.Generation),
		slog.Int("restaurants", snapshot.Restaurants),
		slog.Int("intervals", snapshot.Table.Len()),
	)
	return nil
}

func (w *ReloadWorker) alert(err error) {
	if w.mailer == nil || w.alertTo == "" {
		return
	}

	data := domain.ReloadFailedMailData{
		Error:    err.Error(),
		FailedAt: time.Now(),
	}
	var nerr *hours.NormalizationError
	if errors.As(err, &nerr) {
		data.Restaurant = nerr.Restaurant
		data.Hours = nerr.Hours
		data.Error = nerr.Err.Error()
	}

	if err := w.mailer.PublishMail(domain.MailMessage{
		Type: "reload_failed",
		To:   w.alertTo,
		Data: data,
	}); err != nil {
		w.logger.Error("无法发送报警邮件", slog.String("error", err.Error()))
	}
}

// Run 持续消费通知直到 ctx 被取消或者通道关闭
func (w *ReloadWorker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				w.logger.Warn("重新加载通知通道已关闭")
				return
			}
			_ = w.Handle(d.Body)
			_ = d.Ack(false)
		}
	}
}
