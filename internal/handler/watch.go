package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/grid"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/notify"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/roster"
)

const (
	watchPingInterval = 30 * time.Second
	watchWriteTimeout = 10 * time.Second
	watchSendBuffer   = 16
)

// watchMessage 是推送给客户端的消息，Type 为 change 或 view
type watchMessage struct {
	Type  string              `json:"type"`
	Event *notify.ChangeEvent `json:"event,omitempty"`
	View  *roster.View        `json:"view,omitempty"`
}

// viewportMessage 是客户端滚动时上报的视口
type viewportMessage struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (m viewportMessage) viewport() (roster.Viewport, bool) {
	for _, v := range []float64{m.Top, m.Left, m.Width, m.Height} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return roster.Viewport{}, false
		}
	}
	return roster.Viewport{ScrollTop: m.Top, ScrollLeft: m.Left, Width: m.Width, Height: m.Height}, true
}

// viewStream 跟踪客户端的滚动，滚动停止后才请求渲染视口
type viewStream struct {
	mu       sync.Mutex
	tracker  *grid.ScrollTracker
	viewport roster.Viewport
	known    bool

	render chan roster.Viewport
}

func newViewStream(clock grid.Clock, rowHeight float64, settle time.Duration) *viewStream {
	s := &viewStream{render: make(chan roster.Viewport, 1)}
	s.tracker = grid.NewScrollTracker(clock, rowHeight, settle)
	s.tracker.OnScrollingChange = func(scrolling bool) {
		if !scrolling {
			s.request()
		}
	}
	return s
}

func (s *viewStream) Scroll(vp roster.Viewport) {
	s.mu.Lock()
	s.viewport = vp
	s.known = true
	s.mu.Unlock()

	s.tracker.Scroll(vp.ScrollTop)
}

// Refresh 在数据变更后重新渲染，正在滚动时留到滚动停止
func (s *viewStream) Refresh() {
	if s.tracker.Scrolling() {
		return
	}
	s.request()
}

// request 只保留最新的一个待渲染视口
func (s *viewStream) request() {
	s.mu.Lock()
	vp, known := s.viewport, s.known
	s.mu.Unlock()
	if !known {
		return
	}

	select {
	case <-s.render:
	default:
	}
	select {
	case s.render <- vp:
	default:
	}
}

func (s *viewStream) Stop() {
	s.tracker.Stop()
}

// WatchMonth 把某个月的变更事件推送给 websocket 客户端，十二月同时推送次年一月的变更。
// 客户端上报视口后，滚动停止或数据变更时还会推送该视口的渲染结果
func (h *Handler) WatchMonth(w http.ResponseWriter, r *http.Request) {
	month := r.Context().Value(MonthCtx).(Month)
	if h.broker == nil {
		h.errorResponse(w, r, "实时推送未启用")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket 升级失败", "error", err)
		return
	}

	// 升级后请求的 context 不再可靠，改用连接自己的生命周期
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	send := make(chan notify.ChangeEvent, watchSendBuffer)
	onChange := func(ev notify.ChangeEvent) {
		select {
		case send <- ev:
		default:
			slog.Warn("客户端消费过慢，丢弃变更事件", "month", ev.Month, "kind", ev.Kind)
		}
	}

	var unsubscribes []func()
	defer func() {
		for _, unsubscribe := range unsubscribes {
			unsubscribe()
		}
	}()
	for _, b := range roster.Buckets(month.Year, month.Month) {
		unsubscribe, err := h.broker.SubscribeShifts(ctx, b.Year, b.Month, onChange)
		if err != nil {
			slog.Error("无法订阅变更", "month", b.Prefix(), "error", err)
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "订阅失败"))
			_ = conn.Close()
			return
		}
		unsubscribes = append(unsubscribes, unsubscribe)
	}

	stream := newViewStream(grid.SystemClock, h.config.Grid.RowHeight, h.config.SettleDelay())
	defer stream.Stop()

	go readPump(conn, stream, cancel)
	h.writePump(ctx, conn, month, send, stream)
}

// readPump 接收客户端上报的视口，同时感知客户端断开
func readPump(conn *websocket.Conn, stream *viewStream, cancel context.CancelFunc) {
	defer cancel()
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg viewportMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			slog.Warn("无法解析客户端消息", "error", err)
			continue
		}
		vp, ok := msg.viewport()
		if !ok {
			slog.Warn("客户端上报的视口无效", "viewport", msg)
			continue
		}
		stream.Scroll(vp)
	}
}

func (h *Handler) writePump(ctx context.Context, conn *websocket.Conn, month Month, send <-chan notify.ChangeEvent, stream *viewStream) {
	ticker := time.NewTicker(watchPingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	write := func(msg watchMessage) bool {
		payload, err := json.Marshal(msg)
		if err != nil {
			slog.Error("推送消息序列化失败", "type", msg.Type, "error", err)
			return true
		}
		_ = conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
		return conn.WriteMessage(websocket.TextMessage, payload) == nil
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case ev := <-send:
			if !write(watchMessage{Type: "change", Event: &ev}) {
				return
			}
			stream.Refresh()
		case vp := <-stream.render:
			view, err := h.renderView(ctx, month, vp, nil)
			if err != nil {
				slog.Error("无法渲染推送的视口", "month", domain.MonthPrefix(month.Year, month.Month), "error", err)
				continue
			}
			if !write(watchMessage{Type: "view", View: &view}) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
