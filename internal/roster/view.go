package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/dayoff"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/grid"
)

var errNoBoard = errors.New("排班表尚未加载")

// CellView 是一个可见单元格的渲染结果
type CellView struct {
	Row      int          `json:"row"`
	Col      int          `json:"col"`
	HelperID int64        `json:"helperId"`
	Date     string       `json:"date"`
	Slot     int          `json:"slot"`
	Text     string       `json:"text"`
	DayOff   dayoff.Entry `json:"dayOff"`
	Selected bool         `json:"selected"`
	Border   grid.Border  `json:"border"`
	Failed   bool         `json:"failed"`
}

type Viewport struct {
	ScrollTop  float64
	ScrollLeft float64
	Width      float64
	Height     float64
}

type View struct {
	Rows   grid.IndexRange `json:"rows"`
	Cols   grid.IndexRange `json:"cols"`
	Cells  []CellView      `json:"cells"`
	Failed bool            `json:"failed"`
}

type RenderOptions struct {
	RowHeight   float64
	ColumnWidth float64
	Buffer      int
}

// Renderer 只渲染视口内的单元格，并按单元格缓存渲染结果
type Renderer struct {
	mu       sync.Mutex
	opts     RenderOptions
	board    *Board
	dayOffs  dayoff.State
	memo     *grid.RenderMemo[CellView]
	boundary *grid.Boundary[View]
	logger   *slog.Logger
}

func NewRenderer(opts RenderOptions, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		opts:     opts,
		memo:     grid.NewRenderMemo[CellView](),
		boundary: grid.NewBoundary(logger, "roster", View{Failed: true}),
		logger:   logger,
	}
}

// Update 换上重新加载的数据，之前渲染失败的状态随之清除
func (r *Renderer) Update(board *Board, dayOffs dayoff.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.board == nil || r.board.Layout().Bounds() != board.Layout().Bounds() {
		r.memo = grid.NewRenderMemo[CellView]()
	}
	r.board = board
	r.dayOffs = dayOffs
	r.boundary.Reset()
}

func (r *Renderer) Render(vp Viewport, selection *grid.NormalizedRange) View {
	r.mu.Lock()
	board, dayOffs, memo := r.board, r.dayOffs, r.memo
	r.mu.Unlock()

	return r.boundary.Render(func() (View, error) {
		if board == nil {
			return View{}, errNoBoard
		}
		return r.render(board, dayOffs, memo, vp, selection), nil
	})
}

func (r *Renderer) render(board *Board, dayOffs dayoff.State, memo *grid.RenderMemo[CellView], vp Viewport, selection *grid.NormalizedRange) View {
	layout := board.Layout()
	window := grid.GridWindow{
		Rows: grid.Window{
			Total:         layout.Bounds().Rows,
			ItemSize:      r.opts.RowHeight,
			ContainerSize: vp.Height,
			Buffer:        r.opts.Buffer,
		},
		Cols: layout.Columns(r.opts.ColumnWidth, vp.Width, r.opts.Buffer),
	}
	rows, cols := window.Visible(vp.ScrollTop, vp.ScrollLeft)
	bucket := grid.ScrollBucket(vp.ScrollLeft, r.opts.ColumnWidth*float64(max(cols.Len(), 1)))

	view := View{Rows: rows, Cols: cols, Cells: make([]CellView, 0, rows.Len()*cols.Len())}
	for row := rows.Start; row < rows.End; row++ {
		for col := cols.Start; col < cols.End; col++ {
			cell := grid.Cell{Row: row, Col: col}
			pos, ok := layout.Locate(cell)
			if !ok {
				continue
			}

			helper := layout.Helpers[pos.Helper]
			date := layout.Days[pos.Day]
			entry := dayOffs.Effective(domain.DayOffKey(helper.ID, date))
			// 同一坐标换了助理或日期时也要重新渲染
			deps := grid.UnitDeps{
				ShiftRevision: cellKey(helper.ID, date, pos.Slot) + "|" + board.Revision(cell) + "|" + entry.Kind.String() + "|" + entry.Text,
				ScrollBucket:  bucket,
			}
			if selection != nil {
				deps.Selected = selection.Contains(cell)
				deps.Border = selection.BorderOf(cell)
			}

			view.Cells = append(view.Cells, memo.Resolve(layout.UnitKey(pos), deps, func() CellView {
				return r.renderCell(board, cell, pos, entry, deps)
			}))
		}
	}

	// 丢弃已经滚出窗口的缓存
	memo.Prune(func(key grid.UnitKey) bool {
		return rows.Contains(key.Slot) && cols.Contains(key.Day*len(layout.Helpers)+key.Helper)
	})

	return view
}

func (r *Renderer) renderCell(board *Board, cell grid.Cell, pos Position, entry dayoff.Entry, deps grid.UnitDeps) CellView {
	layout := board.Layout()
	base := CellView{
		Row:      cell.Row,
		Col:      cell.Col,
		HelperID: layout.Helpers[pos.Helper].ID,
		Date:     layout.Days[pos.Day],
		Slot:     pos.Slot,
		Selected: deps.Selected,
		Border:   deps.Border,
	}
	fallback := base
	fallback.Failed = true

	name := fmt.Sprintf("cell(%d,%d)", cell.Row, cell.Col)
	view, _ := grid.Guard(r.logger, name, func() (CellView, error) {
		v := base
		v.Text = board.Text(cell)
		v.DayOff = entry
		return v, nil
	}, fallback)
	return view
}

// Stats 返回渲染缓存的命中次数和未命中次数
func (r *Renderer) Stats() (hits, misses int) {
	r.mu.Lock()
	memo := r.memo
	r.mu.Unlock()
	return memo.Stats()
}
