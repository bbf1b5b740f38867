package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

// IssueAPIToken signs a bearer token for the HTTP API valid for ttl.
func IssueAPIToken(subject string, ttl time.Duration, secretKey string) (string, error) {
	now := GetCurrentTime()
	return GenerateToken(map[string]interface{}{
		"sub": subject,
		"iss": "get-youtube-view",
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}, secretKey)
}
