package service

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService valida access tokens emitidos por el proveedor de auth
// alojado (HS256 con secreto compartido). Este servicio no emite tokens:
// la autenticación completa vive en el proveedor.
type AuthService struct {
	secret []byte
}

// AuthClaims son los claims que nos interesan del token del proveedor.
type AuthClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID es el subject del token.
func (c AuthClaims) UserID() string {
	return c.Subject
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret)}
}

// Enabled indica si hay secreto configurado para verificar tokens.
func (s *AuthService) Enabled() bool {
	return s != nil && len(s.secret) > 0
}

// VerifyAccessToken parsea y valida el token; devuelve los claims.
func (s *AuthService) VerifyAccessToken(token string) (AuthClaims, error) {
	if !s.Enabled() {
		return AuthClaims{}, ErrTokenInvalid
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return AuthClaims{}, ErrTokenInvalid
	}

	var claims AuthClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AuthClaims{}, ErrTokenExpired
		}
		return AuthClaims{}, ErrTokenInvalid
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return AuthClaims{}, ErrTokenInvalid
	}
	return claims, nil
}
