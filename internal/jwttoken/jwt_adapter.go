package jwttoken

import (
	authmw "pfaportal/internal/platform/middleware"
)

func ToMiddlewareClaims(claims *Claims) *authmw.TokenClaims {
	return &authmw.TokenClaims{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Role:      claims.Role,
	}
}

// JWTServiceAdapter bridges the token service to the auth middleware's
// validator contract.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.TokenClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
