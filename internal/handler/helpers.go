package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/notify"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/utils"
)

func (h *Handler) GetAllHelpers(w http.ResponseWriter, r *http.Request) {
	helpers, err := h.activeHelpers(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取助理列表成功", helpers)
}

// activeHelpers 返回在职助理，按姓名读法排序
func (h *Handler) activeHelpers(ctx context.Context) ([]*domain.Helper, error) {
	helpers, err := h.repository.GetAllHelpers(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*domain.Helper, 0, len(helpers))
	for _, helper := range helpers {
		if helper.IsActive {
			active = append(active, helper)
		}
	}
	utils.SortHelpersByReading(active)

	return active, nil
}

func (h *Handler) GetHelper(w http.ResponseWriter, r *http.Request) {
	helper := r.Context().Value(HelperInfoCtx).(*domain.Helper)

	h.successResponse(w, r, "获取助理信息成功", helper)
}

func (h *Handler) SoftDeleteHelper(w http.ResponseWriter, r *http.Request) {
	helper := r.Context().Value(HelperInfoCtx).(*domain.Helper)
	if !helper.IsActive {
		h.errorResponse(w, r, "该助理已停用")
		return
	}

	if err := h.repository.SoftDeleteHelper(r.Context(), helper); err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			h.errorResponse(w, r, "助理信息已被修改，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	now := time.Now()
	h.publishChange(r.Context(), Month{Year: now.Year(), Month: int(now.Month())}, notify.ChangeHelpers)

	h.successResponse(w, r, "助理已停用", helper)
}
