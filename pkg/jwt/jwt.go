package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject datos del usuario que viajan en el token.
// Role es el rol ya resuelto al hacer login; Superadmin reemplaza cualquier bypass por email.
type Subject struct {
	UserID     string
	Email      string
	CompanyID  string
	Role       string
	Superadmin bool
}

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	CompanyID  string `json:"company_id"`
	Role       string `json:"role"` // "admin" | "manager" | "customer"
	Superadmin bool   `json:"superadmin,omitempty"`
}

// Generate genera un token JWT firmado HS256 para el sujeto indicado.
func Generate(secret string, sub Subject, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:     sub.UserID,
		Email:      sub.Email,
		CompanyID:  sub.CompanyID,
		Role:       sub.Role,
		Superadmin: sub.Superadmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el sujeto.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Subject, error) {
	if secret == "" {
		return Subject{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Subject{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Subject{}, fmt.Errorf("claims inválidos")
	}
	return Subject{
		UserID:     claims.UserID,
		Email:      claims.Email,
		CompanyID:  claims.CompanyID,
		Role:       claims.Role,
		Superadmin: claims.Superadmin,
	}, nil
}
