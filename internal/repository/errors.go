package repository

import "errors"

var (
	ErrInvalidKey      = errors.New("休假表的键格式不正确")
	ErrKeyOutOfMonth   = errors.New("键的日期不属于该月")
	ErrShiftOutOfMonth = errors.New("班次日期不属于该月")
	ErrEditConflict    = errors.New("记录已被其他请求修改")
)
