// Package token emite y verifica los JWT de identidad del sistema.
// Los tokens llevan los claims de tenant (kiosco_id, kiosco_role) que el
// middleware de auth usa para armar el contexto de request.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalido cubre firma incorrecta, estructura malformada y expiración.
// La verificación nunca falla por razones de negocio (kiosco inactivo,
// suscripción vencida): eso se decide aguas abajo.
var ErrTokenInvalido = errors.New("token inválido")

// minKeyLen es el mínimo de bytes que exigimos para la clave HMAC-SHA256.
const minKeyLen = 32

// Claims incluye los claims estándar JWT más los campos propios de la
// aplicación. KioscoID y KioscoRole son opcionales: un token de selección de
// cuenta (usuario con varios kioscos que aún no eligió) no los lleva.
// Invariante: KioscoRole presente si y solo si KioscoID presente.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	KioscoID   string `json:"kiosco_id,omitempty"`
	KioscoRole string `json:"kiosco_role,omitempty"`
}

// Service firma y verifica tokens con una clave simétrica compartida por
// todos los workers; es de solo lectura después del arranque.
type Service struct {
	key    []byte
	issuer string
	ttl    time.Duration
}

// New construye el servicio. La clave se estira (repetida y truncada) hasta
// minKeyLen si el secreto configurado es más corto: es un guardrail ante
// configuraciones deficientes, NO una medida de seguridad. En producción el
// secreto debe tener al menos 32 bytes propios.
func New(secret, issuer string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("token: secret vacío")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{key: stretchKey([]byte(secret)), issuer: issuer, ttl: ttl}, nil
}

// stretchKey repite el material de clave hasta cubrir minKeyLen y trunca.
// Debe preservarse tal cual por compatibilidad con tokens ya emitidos.
func stretchKey(secret []byte) []byte {
	if len(secret) >= minKeyLen {
		return secret
	}
	out := make([]byte, 0, minKeyLen)
	for len(out) < minKeyLen {
		out = append(out, secret...)
	}
	return out[:minKeyLen]
}

// Issue emite un token para el usuario, opcionalmente atado a un kiosco.
// Con kioscoID vacío se emite un token de selección de cuenta: sin tenant y
// sin rol. kioscoRole se ignora si no hay kioscoID (se respeta el invariante
// rol-si-y-solo-si-tenant).
func (s *Service) Issue(email, userID, userName, kioscoID, kioscoRole string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:   userID,
		UserName: userName,
	}
	if kioscoID != "" {
		claims.KioscoID = kioscoID
		claims.KioscoRole = kioscoRole
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.key)
}

// Verify valida firma, estructura y expiración, y devuelve los claims.
// Cualquier fallo se reporta como ErrTokenInvalido (envuelto con la causa).
func (s *Service) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalido, err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrTokenInvalido
	}
	return claims, nil
}

// TTL expone la vigencia configurada (la usa el blacklist al revocar).
func (s *Service) TTL() time.Duration {
	return s.ttl
}
