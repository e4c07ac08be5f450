package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Seed struct {
		Helpers int `env:"HELPERS" envDefault:"12"`
		Shifts  int `env:"SHIFTS" envDefault:"200"`
	} `envPrefix:"SEED_"`
	Email struct {
		PayrollRecipient string `env:"PAYROLL_RECIPIENT,required"`
		SMTP             struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD,required"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
		PayrollCacheTTL     int    `env:"PAYROLL_CACHE_TTL" envDefault:"3600"` // 1 小时
	} `envPrefix:"REDIS_"`
	Payroll struct {
		Rates        map[string]float64 `env:"RATES" envDefault:"physical_care:1500,housekeeping:1200,escort:1400,overnight:1300"`
		NightStart   string             `env:"NIGHT_START" envDefault:"22:00"`
		NightEnd     string             `env:"NIGHT_END" envDefault:"05:00"`
		SpecialRate  float64            `env:"SPECIAL_RATE" envDefault:"3000"`
		NightPremium float64            `env:"NIGHT_PREMIUM" envDefault:"1.25"`
	} `envPrefix:"PAYROLL_"`
	Grid struct {
		Slots          []string `env:"SLOTS" envDefault:"06:00-09:00,09:00-12:00,12:00-15:00,15:00-18:00,18:00-22:00"`
		DefaultService string   `env:"DEFAULT_SERVICE" envDefault:"physical_care"`
		SettleDelay    int      `env:"SETTLE_DELAY_MS" envDefault:"150"`
		RowHeight      float64  `env:"ROW_HEIGHT" envDefault:"40"`
		ColumnWidth    float64  `env:"COLUMN_WIDTH" envDefault:"120"`
		Buffer         int      `env:"BUFFER" envDefault:"5"`
	} `envPrefix:"GRID_"`
}

// SettleDelay 返回滚动停止判定的等待时间
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Grid.SettleDelay) * time.Millisecond
}

// LoadConfig 先尝试加载 .env 文件（不存在时忽略），再从环境变量解析配置
func LoadConfig(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("无法加载 %v: %w", files, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
