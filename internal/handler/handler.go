package handler

import (
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/dayoff"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/notify"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/payroll"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/roster"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/utils"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   *repository.Repository
	translator   ut.Translator
	payrollQueue *notify.PayrollQueue
	broker       *notify.Broker
	redisClient  *redis.Client
	calculator   *payroll.Calculator
	loader       *roster.Loader
	slots        []timeutil.Range
	upgrader     websocket.Upgrader
	renderers    *rendererCache

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, queue notify.Publisher, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	calculator, err := payroll.NewFromSettings(payroll.Settings{
		Rates:        cfg.Payroll.Rates,
		NightStart:   cfg.Payroll.NightStart,
		NightEnd:     cfg.Payroll.NightEnd,
		SpecialRate:  cfg.Payroll.SpecialRate,
		NightPremium: cfg.Payroll.NightPremium,
	})
	if err != nil {
		return nil, err
	}

	slots, err := dayoff.ParseSlots(cfg.Grid.Slots)
	if err != nil {
		return nil, err
	}
	if !utils.IsServiceType(cfg.Grid.DefaultService) {
		return nil, fmt.Errorf("默认服务类型 %s 不存在", cfg.Grid.DefaultService)
	}

	h := &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		translator:   trans,
		calculator:   calculator,
		loader:       roster.NewLoader(repo),
		slots:        slots,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		renderers: newRendererCache(roster.RenderOptions{
			RowHeight:   cfg.Grid.RowHeight,
			ColumnWidth: cfg.Grid.ColumnWidth,
			Buffer:      cfg.Grid.Buffer,
		}),

		Mux: chi.NewRouter(),
	}
	if queue != nil {
		h.payrollQueue = notify.NewPayrollQueue(queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	}
	if rdb != nil {
		h.redisClient = rdb
		h.broker = notify.NewBroker(rdb, nil)
	}

	return h, nil
}

func (h *Handler) defaultService() domain.ServiceType {
	return domain.ServiceType(h.config.Grid.DefaultService)
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/helpers", func(r chi.Router) {
		r.Get("/", h.GetAllHelpers)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.helperInfo)
			r.Get("/", h.GetHelper)
			r.Delete("/", h.SoftDeleteHelper)
		})
	})

	h.Mux.Route("/months/{year}/{month}", func(r chi.Router) {
		r.Use(h.monthParam)
		r.Get("/roster", h.GetRoster)
		r.Get("/view", h.GetView)
		r.Put("/shifts", h.SaveShifts)
		r.Patch("/cells", h.EditCells)
		r.Post("/cells/clear", h.ClearCells)
		r.Put("/day-offs", h.SaveDayOffs)
		r.Post("/day-offs/toggle", h.ToggleDayOff)
		r.Get("/payroll", h.GetMonthlyPayroll)
		r.Get("/watch", h.WatchMonth)
	})

	// 计算器接口不依赖数据库
	h.Mux.Post("/pay/calculate", h.CalculatePay)
	h.Mux.Post("/attendance/fixed", h.GenerateFixedAttendance)
}
