package queue

import (
	"context"
	"event-content-service/internal/model"
)

type Delivery struct {
	Data *model.ProvisionJob
	Ack  func()
	Nack func(requeue bool)
}

type ProvisionQueue interface {
	// 發送開通工作到隊列
	PublishJob(ctx context.Context, job *model.ProvisionJob) error
	// 訂閱開通工作隊列
	SubscribeJobs(ctx context.Context) (<-chan Delivery, error)
}

type ProvisionQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.ProvisionJob
}

func NewProvisionQueue(bufferSize int) ProvisionQueue {
	return &ProvisionQueueImpl{
		ch: make(chan *model.ProvisionJob, bufferSize),
	}
}

func (q *ProvisionQueueImpl) PublishJob(ctx context.Context, job *model.ProvisionJob) error {
	// 模擬 MQ 發送
	q.ch <- job
	return nil
}

func (q *ProvisionQueueImpl) SubscribeJobs(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.ch:
				if !ok {
					return
				}

				// 將原始 Job 包裝成 Delivery 格式給 Worker
				out <- Delivery{
					Data: job,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- job // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
