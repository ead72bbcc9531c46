// Package otp はパスワード再設定用のワンタイムコードを保持する。
// ベストエフォートのキャッシュであり、再起動で消えてよい。
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// コードが存在しない、期限切れ、または不一致。
var ErrCodeMismatch = errors.New("otp: code missing or mismatched")

// Store はメールアドレスに紐づくコードの出し入れの約束。
// 呼び出し側を触らずに永続ストアへ差し替えられる。
type Store interface {
	Set(ctx context.Context, email, code string) error
	Verify(ctx context.Context, email, code string) error
	Delete(ctx context.Context, email string) error
}

// GenerateCode は6桁のコードを作る。
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore はTTL付きのredisストアを返す。
func NewRedisStore(rdb *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdb: rdb, ttl: ttl}
}

func key(email string) string {
	return "otp:" + email
}

func (s *redisStore) Set(ctx context.Context, email, code string) error {
	return s.rdb.Set(ctx, key(email), code, s.ttl).Err()
}

// Verify は保存済みコードと比較する。TTL切れはredis側で消えるので
// 存在しない＝期限切れ扱いになる。
func (s *redisStore) Verify(ctx context.Context, email, code string) error {
	stored, err := s.rdb.Get(ctx, key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeMismatch
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrCodeMismatch
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, key(email)).Err()
}
