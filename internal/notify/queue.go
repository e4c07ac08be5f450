package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

const PayrollQueueName = "payroll_queue"

// Publisher 是 *amqp.Channel 中用到的部分
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// DeclarePayrollQueue 声明持久化的工资计算队列，生产者和消费者都需要调用
func DeclarePayrollQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(
		PayrollQueueName, // 队列名称
		true,             // 是否持久化
		false,            // 是否自动删除
		false,            // 是否独占
		false,            // 是否不等待
		nil,              // 额外参数
	)
}

type PayrollQueue struct {
	ch      Publisher
	timeout time.Duration
}

func NewPayrollQueue(ch Publisher, timeout time.Duration) *PayrollQueue {
	return &PayrollQueue{ch: ch, timeout: timeout}
}

func (q *PayrollQueue) Publish(ctx context.Context, job domain.PayrollJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	return q.ch.PublishWithContext(
		ctx,
		"",
		PayrollQueueName,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
