package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garomon/garo-vibe-api/internal/api/handler/v1/request"
	"github.com/garomon/garo-vibe-api/internal/api/handler/v1/response"
	"github.com/garomon/garo-vibe-api/internal/config"
	"github.com/garomon/garo-vibe-api/internal/domain"
	"github.com/garomon/garo-vibe-api/internal/pkg/jwthelper"
	"github.com/garomon/garo-vibe-api/internal/service"
)

type IdentityService interface {
	Resolve(ctx context.Context, walletAddress, email string) (service.Resolution, error)
}

type AuthService interface {
	Signup(ctx context.Context, staff domain.StaffUser) (domain.StaffUser, error)
	Login(ctx context.Context, email, password string) (domain.StaffUser, error)
}

type AuthHandler struct {
	conf        *config.APIConfig
	identitySvc IdentityService
	authSvc     AuthService
}

func NewAuthHandler(conf *config.APIConfig, identitySvc IdentityService, authSvc AuthService) *AuthHandler {
	return &AuthHandler{
		conf:        conf,
		identitySvc: identitySvc,
		authSvc:     authSvc,
	}
}

// HandleWalletLogin godoc
// @Summary      Resolve a wallet login into a member record
// @Description  Called after the custodial wallet provider authenticates the user. Creates a ghost member on first sight and converts pending invitations into tickets.
// @Tags         auth
// @Produce      json
// @Param        request   body      request.WalletLoginRequest true "request body"
// @Success      200      {object}   response.WalletLoginResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/wallet-login [post]
func (h *AuthHandler) HandleWalletLogin(ctx *gin.Context) {
	var req request.WalletLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	resolution, err := h.identitySvc.Resolve(ctx.Request.Context(), req.WalletAddress, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrWalletRequired) {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}

		err = fmt.Errorf("v1.HandleWalletLogin -> h.identitySvc.Resolve -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey),
		resolution.Member.ID, jwthelper.KindMember, ctx.Request.UserAgent())
	if err != nil {
		err = fmt.Errorf("v1.HandleWalletLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.WalletLoginResponse{
		Token:         token,
		Member:        resolution.Member,
		IsNew:         resolution.IsNew,
		TicketGranted: resolution.TicketGranted,
	})
}

// HandleStaffSignup godoc
// @Summary      Create a staff account
// @Tags         auth
// @Produce      json
// @Param        request   body      request.StaffSignupRequest true "request body"
// @Success      201      {object}   domain.StaffUser
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/staff/signup [post]
func (h *AuthHandler) HandleStaffSignup(ctx *gin.Context) {
	var req request.StaffSignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	staff, err := h.authSvc.Signup(ctx.Request.Context(), domain.StaffUser{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, service.ErrStaffEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrStaffEmailExists))

			return
		}

		err = fmt.Errorf("v1.HandleStaffSignup -> h.authSvc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusCreated, staff)
}

// HandleStaffLogin godoc
// @Summary      Login a staff user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.StaffLoginRequest true "request body"
// @Success      200      {object}   response.StaffLoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/staff/login [post]
func (h *AuthHandler) HandleStaffLogin(ctx *gin.Context) {
	req := request.StaffLoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	staff, err := h.authSvc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleStaffLogin -> h.authSvc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey),
		staff.ID, jwthelper.KindStaff, ctx.Request.UserAgent())
	if err != nil {
		err = fmt.Errorf("v1.HandleStaffLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.StaffLoginResponse{
		Token: token,
		Staff: staff,
	})
}
