package handler

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/grid"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/roster"
)

// rendererCache 每个月份一个 Renderer，使同一月份的多次请求共用渲染缓存
type rendererCache struct {
	mu        sync.Mutex
	opts      roster.RenderOptions
	renderers map[string]*roster.Renderer
}

func newRendererCache(opts roster.RenderOptions) *rendererCache {
	return &rendererCache{opts: opts, renderers: make(map[string]*roster.Renderer)}
}

func (c *rendererCache) get(year, month int) *roster.Renderer {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := domain.MonthPrefix(year, month)
	r, ok := c.renderers[key]
	if !ok {
		r = roster.NewRenderer(c.opts, nil)
		c.renderers[key] = r
	}
	return r
}

// GetView 只返回视口内的单元格，查询参数为 top、left、width、height 以及可选的选区 sel=r1,c1,r2,c2
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	month := r.Context().Value(MonthCtx).(Month)

	vp, err := parseViewport(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	var selection *grid.NormalizedRange
	if text := r.URL.Query().Get("sel"); text != "" {
		n, ok := parseSelection(text)
		if !ok {
			h.errorResponse(w, r, "选区格式错误，应为 r1,c1,r2,c2")
			return
		}
		selection = &n
	}

	view, err := h.renderView(r.Context(), month, vp, selection)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if view.Failed {
		h.errorResponse(w, r, "排班表渲染失败，请刷新后重试")
		return
	}

	h.successResponse(w, r, "获取排班视图成功", view)
}

// renderView 重新读取该月数据后渲染视口
func (h *Handler) renderView(ctx context.Context, month Month, vp roster.Viewport, selection *grid.NormalizedRange) (roster.View, error) {
	m, board, err := h.loadBoard(ctx, month)
	if err != nil {
		return roster.View{}, err
	}

	renderer := h.renderers.get(month.Year, month.Month)
	renderer.Update(board, m.DayOffs)
	return renderer.Render(vp, selection), nil
}

func parseViewport(r *http.Request) (roster.Viewport, error) {
	q := r.URL.Query()
	values := make(map[string]float64, 4)
	for _, name := range []string{"top", "left", "width", "height"} {
		text := q.Get(name)
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return roster.Viewport{}, fmt.Errorf("查询参数 %s 无效", name)
		}
		values[name] = v
	}
	return roster.Viewport{
		ScrollTop:  values["top"],
		ScrollLeft: values["left"],
		Width:      values["width"],
		Height:     values["height"],
	}, nil
}

func parseSelection(text string) (grid.NormalizedRange, bool) {
	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return grid.NormalizedRange{}, false
	}
	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return grid.NormalizedRange{}, false
		}
		nums[i] = n
	}
	return grid.SelectionRange{StartRow: nums[0], StartCol: nums[1], EndRow: nums[2], EndCol: nums[3]}.Normalize(), true
}
