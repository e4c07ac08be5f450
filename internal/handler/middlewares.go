package handler

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/roster"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack 使得 websocket 升级可以穿过日志中间件
func (rw *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("底层 ResponseWriter 不支持 Hijack")
	}
	rw.StatusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) helperInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		helperIDParam := chi.URLParam(r, "id")
		helperID, err := strconv.ParseInt(helperIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "助理ID无效")
			return
		}

		helper, err := h.repository.GetHelperByID(r.Context(), helperID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "助理不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), HelperInfoCtx, helper)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) monthParam(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(chi.URLParam(r, "year"))
		if err != nil {
			h.errorResponse(w, r, "年份无效")
			return
		}
		month, err := strconv.Atoi(chi.URLParam(r, "month"))
		if err != nil {
			h.errorResponse(w, r, "月份无效")
			return
		}
		if err := roster.ValidateMonth(year, month); err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), MonthCtx, Month{Year: year, Month: month})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
