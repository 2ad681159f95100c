package middleware

import (
	"errors"
	"strconv"
	"strings"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/models"
	"store_rating_backend/pkg/apperrors"
	"store_rating_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// Authenticator проверяет bearer-токены запросов
type Authenticator struct {
	tokens *auth.TokenManager
}

func NewAuthenticator(tokens *auth.TokenManager) *Authenticator {
	return &Authenticator{tokens: tokens}
}

var errNoToken = errors.New("authorization header missing")

// Required - токен обязателен (401 без него или при невалидном токене)
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.authenticate(c)
		if err != nil {
			if errors.Is(err, errNoToken) {
				apperrors.HandleError(c, apperrors.ErrAuthRequired)
				return
			}
			logger.CtxWarn(c.Request.Context(), "Rejected bearer token", "path", c.Request.URL.Path, "ip", c.ClientIP())
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		setPrincipal(c, claims)
		c.Next()
	}
}

// Optional - для публичных маршрутов: валидный токен персонализирует
// ответ, отсутствующий или невалидный означает анонимного клиента.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.authenticate(c)
		switch {
		case err == nil:
			setPrincipal(c, claims)
		case !errors.Is(err, errNoToken):
			logger.CtxDebug(c.Request.Context(), "Optional token rejected, serving anonymously", "error", err)
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) (*auth.Claims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, errNoToken
	}
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(tokenStr) == "" {
		return nil, auth.ErrInvalidToken
	}
	return a.tokens.Parse(strings.TrimSpace(tokenStr))
}

func setPrincipal(c *gin.Context, claims *auth.Claims) {
	c.Set(contextkeys.UserIDKey, claims.UserID)
	c.Set(contextkeys.RoleKey, claims.Role)

	ctx := logger.WithUserID(c.Request.Context(), strconv.FormatUint(uint64(claims.UserID), 10))
	c.Request = c.Request.WithContext(ctx)
}

// PrincipalFrom - аутентифицированный вызывающий или nil
func PrincipalFrom(c *gin.Context) *auth.Principal {
	userID, ok := c.Get(contextkeys.UserIDKey)
	if !ok {
		return nil
	}
	id, ok := userID.(uint)
	if !ok {
		return nil
	}
	role, _ := c.Get(contextkeys.RoleKey)
	r, _ := role.(models.UserRole)
	return &auth.Principal{UserID: id, Role: r}
}

// Authorize сверяет роль вызывающего с таблицей доступа.
// Проверки владения выполняет сервис.
func Authorize(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := auth.CheckRole(PrincipalFrom(c), action)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, auth.ErrUnauthenticated):
			apperrors.HandleError(c, apperrors.ErrAuthRequired)
		default:
			logger.CtxWarn(c.Request.Context(), "Access denied", "action", string(action), "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrAccessDenied)
		}
	}
}
