package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Denial codes surfaced to door staff. Each one calls for a different action
// at the door: redirect, turn away, or ask the guest to finish signing up.
const (
	CodeNotFound   = "NOT_FOUND"
	CodeNoAccess   = "NO_ACCESS"
	CodeNoTicket   = "NO_TICKET"
	CodeWrongEvent = "WRONG_EVENT"
)

type Err struct {
	HTTPStatusCode int    `json:"-"`
	Code           string `json:"code,omitempty"`
	ErrorMsg       string `json:"error"`
	HeldEventName  string `json:"held_event_name,omitempty"`
}

func RenderErr(ctx *gin.Context, e *Err) {
	ctx.JSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		ErrorMsg:       err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		ErrorMsg:       err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		ErrorMsg:       err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		ErrorMsg:       err.Error(),
	}
}

func ErrNotFound(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		Code:           CodeNotFound,
		ErrorMsg:       err.Error(),
	}
}

// ErrDenied is a 403 carrying a machine-readable denial code, used by the
// check-in endpoint to distinguish NoAccess, NoTicket and WrongEvent.
func ErrDenied(code string, err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		Code:           code,
		ErrorMsg:       err.Error(),
	}
}

func ErrPaymentRequired(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusPaymentRequired,
		ErrorMsg:       err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		ErrorMsg:       "internal server error",
	}
}
