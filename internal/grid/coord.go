package grid

// Cell 是网格中的坐标，Row 为时间段序号，Col 为 (日期, 助理) 的组合序号
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Bounds 表示网格的行列数
type Bounds struct {
	Rows int
	Cols int
}

func (b Bounds) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < b.Rows && c.Col >= 0 && c.Col < b.Cols
}

// Clamp 把坐标限制在网格内
func (b Bounds) Clamp(c Cell) Cell {
	return Cell{
		Row: min(max(c.Row, 0), b.Rows-1),
		Col: min(max(c.Col, 0), b.Cols-1),
	}
}
