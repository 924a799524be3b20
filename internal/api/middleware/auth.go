package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garomon/garo-vibe-api/internal/api/handler/v1/response"
	"github.com/garomon/garo-vibe-api/internal/pkg/jwthelper"
)

// Context keys populated by VerifyJWT.
const (
	CtxKeyUserID    = "user_id"
	CtxKeyTokenKind = "token_kind"
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT validates the bearer token and requires it to carry the given
// kind ("member" or "staff").
func (a *Authenticator) VerifyJWT(requiredKind string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("missing authorization header")))
			ctx.Abort()

			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("malformed authorization header")))
			ctx.Abort()

			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, parts[1])
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			ctx.Abort()

			return
		}

		if claims.Kind != requiredKind {
			response.RenderErr(ctx, response.ErrPermissionDenied(errors.New("token kind not allowed here")))
			ctx.Abort()

			return
		}

		ctx.Set(CtxKeyUserID, claims.UserID)
		ctx.Set(CtxKeyTokenKind, claims.Kind)
		ctx.Next()
	}
}
