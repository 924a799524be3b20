package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/garomon/garo-vibe-api/internal/api/handler/v1/request"
	"github.com/garomon/garo-vibe-api/internal/api/handler/v1/response"
	"github.com/garomon/garo-vibe-api/internal/api/middleware"
	"github.com/garomon/garo-vibe-api/internal/domain"
	"github.com/garomon/garo-vibe-api/internal/pkg/jwthelper"
	"github.com/garomon/garo-vibe-api/internal/service"
)

type TicketService interface {
	Issue(ctx context.Context, email string, eventID *uint, issuedBy string) (domain.Invitation, bool, error)
	Redeem(ctx context.Context, walletAddress string, eventID *uint) (domain.RedeemResult, error)
}

type MemberService interface {
	GetMember(ctx context.Context, id uint) (domain.Member, error)
	GetAttendanceHistory(ctx context.Context, memberID uint) ([]domain.AttendanceRecord, error)
}

type StaffService interface {
	GetStaff(ctx context.Context, id uint) (domain.StaffUser, error)
}

type MembershipHandler struct {
	ticketSvc TicketService
	memberSvc MemberService
	staffSvc  StaffService
}

func NewMembershipHandler(ticketSvc TicketService, memberSvc MemberService, staffSvc StaffService) *MembershipHandler {
	return &MembershipHandler{
		ticketSvc: ticketSvc,
		memberSvc: memberSvc,
		staffSvc:  staffSvc,
	}
}

// HandleCheckin godoc
// @Summary      Redeem a ticket at the door
// @Description  Burns the guest's ticket and records attendance. A first check-in transmutes a ghost into a tier-1 member; later check-ins accrue attendance and may level the member up.
// @Tags         membership
// @Produce      json
// @Param        request   body      request.CheckinRequest true "request body"
// @Success      200      {object}   response.CheckinResponse
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /checkin [post]
// @Security     BearerAuth
func (h *MembershipHandler) HandleCheckin(ctx *gin.Context) {
	var req request.CheckinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	result, err := h.ticketSvc.Redeem(ctx.Request.Context(), req.WalletAddress, req.EventID)
	if err != nil {
		var wrongEvent *service.WrongEventError

		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			// The guest has to complete signup before the door can scan them.
			response.RenderErr(ctx, response.ErrNotFound(err))
		case errors.As(err, &wrongEvent):
			respErr := response.ErrDenied(response.CodeWrongEvent, err)
			respErr.HeldEventName = wrongEvent.HeldEventName
			response.RenderErr(ctx, respErr)
		case errors.Is(err, service.ErrNoAccess):
			response.RenderErr(ctx, response.ErrDenied(response.CodeNoAccess, err))
		case errors.Is(err, service.ErrNoTicket):
			response.RenderErr(ctx, response.ErrDenied(response.CodeNoTicket, err))
		default:
			err = fmt.Errorf("v1.HandleCheckin -> h.ticketSvc.Redeem -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.CheckinResponse{
		Kind:            result.Kind,
		NewTier:         result.NewTier,
		AttendanceCount: result.AttendanceCount,
		CredentialRef:   result.CredentialRef,
		EventID:         result.EventID,
	})
}

// HandleIssueInvitation godoc
// @Summary      Issue an invitation
// @Description  Creates a pending invitation for an email, optionally scoped to an event. Issuing twice for the same pair returns the existing invitation.
// @Tags         membership
// @Produce      json
// @Param        request   body      request.IssueInvitationRequest true "request body"
// @Success      201      {object}   response.IssueInvitationResponse
// @Success      200      {object}   response.IssueInvitationResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /invitations [post]
// @Security     BearerAuth
func (h *MembershipHandler) HandleIssueInvitation(ctx *gin.Context) {
	var req request.IssueInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	issuedBy, err := h.issuerLabel(ctx)
	if err != nil {
		err = fmt.Errorf("v1.HandleIssueInvitation -> h.issuerLabel -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	invitation, created, err := h.ticketSvc.Issue(ctx.Request.Context(), req.Email, req.EventID, issuedBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound(err))
		default:
			err = fmt.Errorf("v1.HandleIssueInvitation -> h.ticketSvc.Issue -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	ctx.JSON(status, response.IssueInvitationResponse{
		Invitation: invitation,
		Created:    created,
	})
}

// issuerLabel resolves who is issuing the invitation: the staff account's
// email on staff tokens, the member's wallet on peer referrals.
func (h *MembershipHandler) issuerLabel(ctx *gin.Context) (string, error) {
	userID := ctx.GetUint(middleware.CtxKeyUserID)

	if ctx.GetString(middleware.CtxKeyTokenKind) == jwthelper.KindStaff {
		staff, err := h.staffSvc.GetStaff(ctx.Request.Context(), userID)
		if err != nil {
			return "", fmt.Errorf("h.staffSvc.GetStaff -> %w", err)
		}

		return staff.Email, nil
	}

	member, err := h.memberSvc.GetMember(ctx.Request.Context(), userID)
	if err != nil {
		return "", fmt.Errorf("h.memberSvc.GetMember -> %w", err)
	}

	return member.WalletAddress, nil
}

// HandleGetMe godoc
// @Summary      Get the authenticated member's profile
// @Tags         members
// @Produce      json
// @Success      200      {object}   domain.Member
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /members/me [get]
// @Security     BearerAuth
func (h *MembershipHandler) HandleGetMe(ctx *gin.Context) {
	memberID := ctx.GetUint(middleware.CtxKeyUserID)

	member, err := h.memberSvc.GetMember(ctx.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleGetMe -> h.memberSvc.GetMember -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, member)
}

// HandleGetMyAttendance godoc
// @Summary      List the authenticated member's check-in history
// @Tags         members
// @Produce      json
// @Success      200      {object}   response.AttendanceHistoryResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /members/me/attendance [get]
// @Security     BearerAuth
func (h *MembershipHandler) HandleGetMyAttendance(ctx *gin.Context) {
	memberID := ctx.GetUint(middleware.CtxKeyUserID)

	records, err := h.memberSvc.GetAttendanceHistory(ctx.Request.Context(), memberID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyAttendance -> h.memberSvc.GetAttendanceHistory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.AttendanceHistoryResponse{Records: records})
}

// HandleGetMember godoc
// @Summary      Get a member by ID
// @Tags         members
// @Produce      json
// @Param        memberID  path      int  true  "Member ID"
// @Success      200      {object}   domain.Member
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /members/{memberID} [get]
// @Security     BearerAuth
func (h *MembershipHandler) HandleGetMember(ctx *gin.Context) {
	memberID, err := strconv.ParseUint(ctx.Param("memberID"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid member ID: %w", err)))

		return
	}

	member, err := h.memberSvc.GetMember(ctx.Request.Context(), uint(memberID))
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))

			return
		}

		err = fmt.Errorf("v1.HandleGetMember -> h.memberSvc.GetMember -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, member)
}
