package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/payroll"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/utils"
)

type calculatorFlags struct {
	rates        map[string]int64
	nightStart   string
	nightEnd     string
	specialRate  float64
	nightPremium float64
}

func (f *calculatorFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringToInt64Var(&f.rates, "rate", nil, "覆盖服务类型的时薪，例如 physical_care=1600")
	cmd.PersistentFlags().StringVar(&f.nightStart, "night-start", "22:00", "深夜时段开始时间 (HH:MM)")
	cmd.PersistentFlags().StringVar(&f.nightEnd, "night-end", "05:00", "深夜时段结束时间 (HH:MM)")
	cmd.PersistentFlags().Float64Var(&f.specialRate, "special-rate", 3000, "年末年初的特别时薪")
	cmd.PersistentFlags().Float64Var(&f.nightPremium, "night-premium", 1.25, "深夜时长的倍率")
}

func (f *calculatorFlags) calculator() (*payroll.Calculator, error) {
	rates := make(map[string]float64, len(payroll.DefaultRates))
	for k, v := range payroll.DefaultRates {
		rates[k] = v
	}
	for k, v := range f.rates {
		rates[k] = float64(v)
	}

	return payroll.NewFromSettings(payroll.Settings{
		Rates:        rates,
		NightStart:   f.nightStart,
		NightEnd:     f.nightEnd,
		SpecialRate:  f.specialRate,
		NightPremium: f.nightPremium,
	})
}

func newRootCommand() *cobra.Command {
	flags := &calculatorFlags{}

	root := &cobra.Command{
		Use:           "paycalc",
		Short:         "护理班次工资和固定出勤计算",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root)

	root.AddCommand(newShiftCommand(flags), newAttendanceCommand())
	return root
}

func newShiftCommand(flags *calculatorFlags) *cobra.Command {
	var service, date string

	cmd := &cobra.Command{
		Use:   "shift HH:MM-HH:MM",
		Short: "计算单个班次的工资",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := timeutil.ParseRange(args[0]); !ok {
				return fmt.Errorf("时间段 %q 格式错误，应为 HH:MM-HH:MM", args[0])
			}
			calc, err := flags.calculator()
			if err != nil {
				return err
			}

			pay := calc.CalculateShiftPay(domain.ServiceType(service), args[0], date)
			printShiftPay(cmd.OutOrStdout(), pay, date != "" && payroll.IsSpecialRateDate(date))
			return nil
		},
	}
	types := make([]string, 0, 4)
	for _, t := range utils.ServiceTypes() {
		types = append(types, string(t))
	}
	cmd.Flags().StringVarP(&service, "service", "s", string(domain.ServicePhysicalCare), "服务类型 ("+strings.Join(types, ", ")+")")
	cmd.Flags().StringVarP(&date, "date", "d", "", "班次日期 (YYYY-MM-DD)，用于判断特别时薪")
	return cmd
}

func printShiftPay(out io.Writer, pay payroll.ShiftPay, special bool) {
	fmt.Fprintf(out, "普通时长: %.2fh\n", pay.RegularHours)
	fmt.Fprintf(out, "深夜时长: %.2fh\n", pay.NightHours)
	fmt.Fprintf(out, "普通工资: %s\n", payroll.RoundForDisplay(pay.RegularPay))
	fmt.Fprintf(out, "深夜工资: %s\n", payroll.RoundForDisplay(pay.NightPay))
	fmt.Fprintf(out, "合计:     %s\n", payroll.RoundForDisplay(pay.TotalPay))
	if special {
		fmt.Fprintln(out, "（特别时薪日期）")
	}
}

func newAttendanceCommand() *cobra.Command {
	var (
		year, month  int
		start, end   string
		breakMinutes int
		weekends     bool
		holidays     bool
		excluded     []string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "按固定上下班时间生成某个月的出勤表",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule := payroll.FixedSchedule{
				StartTime:       start,
				EndTime:         end,
				BreakMinutes:    breakMinutes,
				ExcludeWeekends: weekends,
				ExcludeHolidays: holidays,
			}
			for _, text := range excluded {
				r, err := parseDateRange(text)
				if err != nil {
					return err
				}
				schedule.Excluded = append(schedule.Excluded, r)
			}

			days, err := payroll.GenerateFixedDailyAttendance(schedule, year, month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(days)
			}
			for _, d := range days {
				if d.OffReason != "" {
					fmt.Fprintf(out, "%s  %-9s 休息 (%s)\n", d.Date, d.Weekday, d.OffReason)
					continue
				}
				fmt.Fprintf(out, "%s  %-9s %s-%s 休息 %d 分钟  %.2fh\n", d.Date, d.Weekday, d.StartTime, d.EndTime, d.BreakMinutes, d.WorkHours)
			}
			fmt.Fprintf(out, "合计工时: %.2fh\n", payroll.TotalWorkHours(days))
			if holidays && !payroll.HasHolidayTable(year) {
				fmt.Fprintf(out, "注意: 没有 %d 年的节假日数据，节假日未被排除\n", year)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "年份")
	cmd.Flags().IntVar(&month, "month", 0, "月份")
	cmd.Flags().StringVar(&start, "start", "09:00", "上班时间 (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "18:00", "下班时间 (HH:MM)")
	cmd.Flags().IntVar(&breakMinutes, "break", 60, "休息时长（分钟）")
	cmd.Flags().BoolVar(&weekends, "exclude-weekends", true, "周末不上班")
	cmd.Flags().BoolVar(&holidays, "exclude-holidays", true, "节假日不上班")
	cmd.Flags().StringSliceVar(&excluded, "exclude", nil, "额外排除的日期区间，例如 2026-08-10:2026-08-14")
	cmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 格式输出")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

// parseDateRange 解析 FROM:TO，只有一个日期时表示单日
func parseDateRange(text string) (payroll.DateRange, error) {
	from, to, found := strings.Cut(text, ":")
	if !found {
		to = from
	}
	if len(from) != len(domain.DateLayout) || len(to) != len(domain.DateLayout) || to < from {
		return payroll.DateRange{}, errors.New("日期区间格式错误: " + text)
	}
	return payroll.DateRange{From: from, To: to}, nil
}
