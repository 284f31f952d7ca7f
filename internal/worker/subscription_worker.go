package worker

import (
	"context"

	"event-content-service/internal/queue"
	"event-content-service/internal/service"
	"event-content-service/pkg/logger"

	"go.uber.org/zap"
)

type SubscriptionWorker interface {
	// 訂閱開通工作隊列
	Start(ctx context.Context) error
}

type SubscriptionWorkerImpl struct {
	service service.SubscriptionService
	queue   queue.ProvisionQueue
}

func NewSubscriptionWorker(service service.SubscriptionService, queue queue.ProvisionQueue) SubscriptionWorker {
	return &SubscriptionWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *SubscriptionWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeJobs(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			err := w.service.Provision(ctx, msg.Data)

			if err != nil {
				// 外部服務或資料庫暫時失敗，留給隊列重試
				logger.WithComponent("worker").Warn("provision failed, will retry",
					zap.String("request_id", msg.Data.RequestID),
					zap.Int("event_id", msg.Data.EventID),
					zap.Error(err))
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
