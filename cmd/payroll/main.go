package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/notify"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/payroll"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/repository"
	"github.com/wneessen/go-mail"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// worker 消费 payroll_queue：重新计算某个月的工资汇总，写入缓存并发邮件给事务所
type worker struct {
	cfg        *config.Config
	logger     *slog.Logger
	repo       *repository.Repository
	rdb        *redis.Client
	client     *mail.Client
	calculator *payroll.Calculator
	tmpl       *template.Template
}

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	calculator, err := payroll.NewFromSettings(payroll.Settings{
		Rates:        cfg.Payroll.Rates,
		NightStart:   cfg.Payroll.NightStart,
		NightEnd:     cfg.Payroll.NightEnd,
		SpecialRate:  cfg.Payroll.SpecialRate,
		NightPremium: cfg.Payroll.NightPremium,
	})
	if err != nil {
		logger.Error("无法创建工资计算器", slog.String("error", err.Error()))
		return
	}

	tmpl, err := template.ParseFiles("./templates/payroll_summary.html")
	if err != nil {
		logger.Error("无法解析邮件模板", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer pingCancel()
	if err := dbpool.PingContext(pingCtx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	/**********************************************
	 * 创建邮件客户端
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// 验证邮件客户端是否连接成功
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := notify.DeclarePayrollQueue(ch)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，由 RabbitMQ 自动分配
		false,  // 手动确认
		false,  // 是否独占队列
		false,  // RabbitMQ 不支持 no-local
		false,  // 等待 RabbitMQ 响应
		nil,    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	w := &worker{
		cfg:        cfg,
		logger:     logger,
		repo:       repository.NewRepository(cfg, dbpool),
		rdb:        rdb,
		client:     client,
		calculator: calculator,
		tmpl:       tmpl,
	}

	// 用于关闭 goroutine 的上下文
	ctx, stop := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.handle(ctx, msg)
			}
		}
	}()

	logger.Info("等待工资计算任务...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 payroll worker...")
	stop()
	wg.Wait()
	slog.Info("payroll worker 已成功关闭")
}

func (w *worker) handle(ctx context.Context, msg amqp.Delivery) {
	w.logger.Info("收到工资计算任务", slog.String("message", string(msg.Body)))

	job := domain.PayrollJob{}
	if err := json.Unmarshal(msg.Body, &job); err != nil || job.Month < 1 || job.Month > 12 {
		w.logger.Error("任务反序列化失败", slog.Any("error", err), slog.String("body", string(msg.Body)))
		_ = msg.Nack(false, false)
		return
	}

	report, err := w.buildReport(ctx, job)
	if err != nil {
		w.logger.Error("无法计算工资汇总", slog.String("error", err.Error()))
		_ = msg.Nack(false, true)
		return
	}

	if payload, err := json.Marshal(report); err == nil {
		key := "payroll:" + domain.MonthPrefix(job.Year, job.Month)
		ttl := time.Duration(w.cfg.Redis.PayrollCacheTTL) * time.Second
		if err := w.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
			w.logger.Error("无法写入工资缓存", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	m := mail.NewMsg()
	if err := m.From(w.cfg.Email.SMTP.Username); err != nil {
		w.logger.Error("无法设置邮件发件人", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.To(w.cfg.Email.PayrollRecipient); err != nil {
		w.logger.Error("无法设置邮件收件人", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	if err := m.SetBodyHTMLTemplate(w.tmpl, report.MailData()); err != nil {
		w.logger.Error("无法设置邮件正文", slog.String("error", err.Error()))
		_ = msg.Nack(false, false)
		return
	}
	m.Subject(fmt.Sprintf("护理排班系统 - %d 年 %d 月工资汇总", job.Year, job.Month))

	if err := w.client.DialAndSend(m); err != nil {
		w.logger.Error("邮件发送失败", slog.String("error", err.Error()))
		_ = msg.Nack(false, true) // 将消息重新入队
		return
	}

	_ = msg.Ack(false)
}

func (w *worker) buildReport(ctx context.Context, job domain.PayrollJob) (payroll.Report, error) {
	shifts, err := w.repo.GetShiftsByMonth(ctx, job.Year, job.Month)
	if err != nil {
		return payroll.Report{}, err
	}
	helpers, err := w.repo.GetAllHelpers(ctx)
	if err != nil {
		return payroll.Report{}, err
	}

	names := make(map[int64]string, len(helpers))
	for _, helper := range helpers {
		names[helper.ID] = helper.FullName
	}
	return w.calculator.BuildReport(job.Year, job.Month, shifts, names), nil
}
