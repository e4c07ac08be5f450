package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/dayoff"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/roster"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/utils"
)

// HelperStore 是插入助理时用到的 repository 方法
type HelperStore interface {
	GetAllHelpers(ctx context.Context) ([]*domain.Helper, error)
	CreateHelper(ctx context.Context, helper *domain.Helper) error
}

type Seeder struct {
	helpers     HelperStore
	loader      *roster.Loader
	emailDomain string
}

func NewSeeder(helpers HelperStore, store roster.Store, emailDomain string) *Seeder {
	return &Seeder{
		helpers:     helpers,
		loader:      roster.NewLoader(store),
		emailDomain: emailDomain,
	}
}

// SeedHelpers 插入 n 个随机助理，用户名冲突的跳过，返回成功插入的数量
func (s *Seeder) SeedHelpers(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, errors.New("请输入合法的助理数量")
	}

	cnt := 0
	for i := 0; i < n; i++ {
		helper := utils.GenerateRandomHelper(s.emailDomain)
		if err := s.helpers.CreateHelper(ctx, helper); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == "helpers_username_key" {
				slog.Warn("用户名已存在，跳过", "username", helper.Username)
				continue
			}
			return cnt, fmt.Errorf("无法插入助理: %w", err)
		}
		cnt++
	}

	return cnt, nil
}

// SeedShifts 为在职助理随机生成一个月的班次，与已生成班次冲突的会被丢弃
func (s *Seeder) SeedShifts(ctx context.Context, year, month, n int) ([]*domain.Shift, error) {
	if err := roster.ValidateMonth(year, month); err != nil {
		return nil, err
	}
	helpers, err := s.activeHelpers(ctx)
	if err != nil {
		return nil, err
	}

	days := roster.MonthDays(year, month)
	now := time.Now()
	accepted := make([]*domain.Shift, 0, n)

	// 尝试次数有上限，避免助理太少时无法收敛
	for attempt := 0; len(accepted) < n && attempt < n*5; attempt++ {
		helper := helpers[rand.Intn(len(helpers))]
		shift := utils.GenerateRandomShift(helper.ID, days)
		shift.ID = uuid.NewString()
		shift.UpdatedAt = now

		if err := utils.ValidateShiftTimes(append(accepted, shift)); err != nil {
			continue
		}
		accepted = append(accepted, shift)
	}

	if err := s.loader.SaveShifts(ctx, year, month, accepted); err != nil {
		return nil, err
	}

	return accepted, nil
}

// SeedDayOffs 每个在职助理随机申请若干天休假，并随机指定一天固定休息日
func (s *Seeder) SeedDayOffs(ctx context.Context, year, month int) (dayoff.State, error) {
	if err := roster.ValidateMonth(year, month); err != nil {
		return dayoff.State{}, err
	}
	helpers, err := s.activeHelpers(ctx)
	if err != nil {
		return dayoff.State{}, err
	}

	days := roster.MonthDays(year, month)
	state := dayoff.NewState()
	for _, helper := range helpers {
		requested := utils.GenerateRandomSubset(days)
		if len(requested) > 3 {
			requested = requested[:3]
		}
		for _, date := range requested {
			state, err = state.Apply(dayoff.Decision{
				HelperID: helper.ID,
				Date:     date,
				Kind:     dayoff.KindRequest,
				TimeSpec: utils.GenerateRandomDayOffSpec(),
			})
			if err != nil {
				return dayoff.State{}, err
			}
		}

		start := rand.Intn(len(days))
		for i := range days {
			date := days[(start+i)%len(days)]
			if _, result := state.Toggle(helper.ID, date); result == dayoff.ToggleNeedsDecision {
				state, _ = state.Apply(dayoff.Decision{HelperID: helper.ID, Date: date, Kind: dayoff.KindScheduled})
				break
			}
		}
	}

	if err := s.loader.SaveDayOffs(ctx, year, month, state); err != nil {
		return dayoff.State{}, err
	}

	return state, nil
}

func (s *Seeder) activeHelpers(ctx context.Context) ([]*domain.Helper, error) {
	helpers, err := s.helpers.GetAllHelpers(ctx)
	if err != nil {
		return nil, fmt.Errorf("无法获取助理列表: %w", err)
	}

	active := make([]*domain.Helper, 0, len(helpers))
	for _, helper := range helpers {
		if helper.IsActive {
			active = append(active, helper)
		}
	}
	if len(active) == 0 {
		return nil, errors.New("数据库中没有在职助理，请先插入助理")
	}
	return active, nil
}
