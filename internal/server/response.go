package server

import (
	"errors"

	"github.com/kataras/iris/v12"

	"github.com/example/techshop/internal/apperr"
)

// Response 固定的响应信封，由各 handler 显式构造
type Response struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(ctx iris.Context, status int, message string, data interface{}) {
	ctx.StatusCode(status)
	_ = ctx.JSON(Response{OK: true, Message: message, Data: data})
}

// statusFor 把错误分类映射到 HTTP 状态码与对外消息
func statusFor(err error) (int, string) {
	var ve *apperr.ValidationError
	var pnf *apperr.ProductNotFoundError
	var ins *apperr.InsufficientStockError
	switch {
	case errors.As(err, &ve):
		return iris.StatusBadRequest, ve.Reason
	case errors.As(err, &pnf):
		return iris.StatusBadRequest, pnf.Error()
	case errors.As(err, &ins):
		return iris.StatusConflict, ins.Error()
	case errors.Is(err, apperr.ErrNotFound):
		return iris.StatusNotFound, "not found"
	case errors.Is(err, apperr.ErrDuplicate):
		return iris.StatusConflict, "duplicate entry"
	case errors.Is(err, apperr.ErrConflict):
		return iris.StatusConflict, "conflicts with existing data"
	default:
		return iris.StatusInternalServerError, "server error"
	}
}

// respondErr 输出错误信封，调试详情只在非生产环境下发
func respondErr(ctx iris.Context, production bool, err error) {
	status, message := statusFor(err)
	resp := Response{OK: false, Message: message}
	if !production {
		resp.Error = err.Error()
	}
	ctx.StopWithJSON(status, resp)
}

// respondErrMsg 查询未命中时使用业务化的对外消息，其余错误走默认映射
func respondErrMsg(ctx iris.Context, production bool, err error, notFoundMsg string) {
	if !errors.Is(err, apperr.ErrNotFound) {
		respondErr(ctx, production, err)
		return
	}
	resp := Response{OK: false, Message: notFoundMsg}
	if !production {
		resp.Error = err.Error()
	}
	ctx.StopWithJSON(iris.StatusNotFound, resp)
}
