package internal

import (
	"fmt"
	"foodcourt/entity"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Authenticate extracts the identity from a bearer token issued by the
// external identity provider. The provider is opaque to the storefront; all
// that is read from the token is the user id, email, name and admin flag.
func Authenticate(r *http.Request, secret string) (*entity.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, fmt.Errorf("missing authorization header")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return nil, fmt.Errorf("malformed authorization header")
	}

	claims := &jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %v", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	user := &entity.User{
		Id:    claimString(*claims, "sub"),
		Email: claimString(*claims, "email"),
		Name:  claimString(*claims, "name"),
	}
	if admin, ok := (*claims)["admin"].(bool); ok {
		user.Admin = admin
	}
	if user.Id == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return user, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}
