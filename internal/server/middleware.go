package server

import (
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tracera/tracera/internal/actorctx"
	"github.com/tracera/tracera/internal/auth/method"
	obscontext "github.com/tracera/tracera/internal/observability/context"
	"github.com/tracera/tracera/internal/revstore"
	userdomain "github.com/tracera/tracera/internal/user/domain"
)

// AuthRequired authenticates the request with HTTP basic credentials against
// the active user set. The resolved user id is stored in the request context
// and becomes the author of any revision committed by the handler.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userName, secret, ok := parseBasicAuth(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="tracera"`)
			AbortWithError(c, ErrUnauthorized)
			return
		}

		actor, err := s.userSvc.GetByUniqueAttribute(c.Request.Context(), userdomain.FindUserRequest{
			Attribute: "user_name",
			Value:     userName,
			Selection: revstore.SelectionActive,
		})
		if err != nil {
			c.Header("WWW-Authenticate", `Basic realm="tracera"`)
			AbortWithError(c, ErrUnauthorized)
			return
		}

		m, err := method.Lookup(method.Basic)
		if err != nil || !m.Verify(secret, actor.PasswordHash) {
			c.Header("WWW-Authenticate", `Basic realm="tracera"`)
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := actorctx.WithActorID(c.Request.Context(), actor.UserID)
		ctx = obscontext.WithActor(ctx, actor.UserName)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func parseBasicAuth(header string) (string, string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", "", false
	}
	const prefix = "basic "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}
	userName, secret, found := strings.Cut(string(decoded), ":")
	if !found || strings.TrimSpace(userName) == "" {
		return "", "", false
	}
	return userName, secret, true
}

func actorID(c *gin.Context) int64 {
	id, _ := actorctx.ActorIDFromContext(c.Request.Context())
	return id
}
