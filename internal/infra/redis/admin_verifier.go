package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// AdminVerifier checks admin credentials against tokens provisioned in
// Redis under admin:token:{token}.
type AdminVerifier struct {
	client *goredis.Client
}

func NewAdminVerifier(client *goredis.Client) *AdminVerifier {
	return &AdminVerifier{client: client}
}

func (v *AdminVerifier) VerifyAdmin(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := v.client.Exists(ctx, v.tokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("verify admin token: %w", err)
	}
	return n > 0, nil
}

func (v *AdminVerifier) tokenKey(token string) string {
	return "admin:token:" + token
}
