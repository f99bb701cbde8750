package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/vitalink/internal/models"
)

var (
	errMissingBearerToken = errors.New("missing bearer token")
	errInvalidToken       = errors.New("invalid token")
	errTokenExpired       = errors.New("token expired")
)

func bearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errMissingBearerToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMissingBearerToken
	}
	return token, nil
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	tokenValue, err := bearerToken(c)
	if err != nil {
		return nil, err
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, errInvalidToken
	}
	if !token.Valid || claims.ExpiresAt == nil {
		return nil, errInvalidToken
	}

	user, err := handler.authService.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive || user.Role != claims.Role {
		return nil, errInvalidToken
	}
	return &user, nil
}
