package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const (
	msgMissingToken = "отсутствует токен авторизации"
	msgInvalidToken = "недействительный токен авторизации"
	msgAdminOnly    = "доступно только администратору"
)

var (
	// ErrMissingToken в запросе нет заголовка Authorization: Bearer
	ErrMissingToken = errors.New("auth: missing bearer token")

	// ErrInvalidToken токен не прошел проверку
	ErrInvalidToken = errors.New("auth: invalid token")
)

type actorKey struct{}

// Claims полезная нагрузка JWT
// sub идентификатор пользователя, остальные поля описывают его права
type Claims struct {
	Name               string `json:"name"`
	IsAdmin            bool   `json:"is_admin"`
	IsDifferentlyAbled bool   `json:"is_differently_abled"`
	jwt.RegisteredClaims
}

// Actor пользователь, описанный токеном
func (c *Claims) Actor() domain.Actor {
	return domain.Actor{
		ID:                 c.Subject,
		Name:               c.Name,
		IsAdmin:            c.IsAdmin,
		IsDifferentlyAbled: c.IsDifferentlyAbled,
	}
}

// Auth проверяет Bearer токен (HS256) и кладет пользователя в контекст запроса
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := ParseToken(r.Header.Get("Authorization"), secret)
			if err != nil {
				if errors.Is(err, ErrMissingToken) {
					handlers.RespondUnauthorized(w, msgMissingToken)
					return
				}
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// AdminOnly пропускает только администраторов, ставится после Auth
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		if !actor.IsAdmin {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ParseToken разбирает значение заголовка Authorization
func ParseToken(header string, secret []byte) (domain.Actor, error) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return domain.Actor{}, ErrMissingToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return domain.Actor{}, errors.Join(ErrInvalidToken, errors.New("empty subject"))
	}

	return claims.Actor(), nil
}

// WithActor кладет пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor достает пользователя из контекста (через middleware Auth)
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
