package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"projectbazaar/internal/cart"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// カートはスコープ（ログインユーザー or ゲストトークン）ごとに
// 1キーのJSONで丸ごと保存する。
type CartRedisStore struct {
	client *redis.Client
	log    *logrus.Logger

	//操作が無ければこの期間で消える
	ttl time.Duration
}

func NewCartRedisStore(client *redis.Client, log *logrus.Logger) *CartRedisStore {
	return &CartRedisStore{
		client: client,
		log:    log,
		ttl:    30 * 24 * time.Hour,
	}
}

func cartKey(scope string) string {
	return "cart:" + scope
}

// Load はスコープのカートを読む。キーが無い・JSONが壊れている場合は
// 空カートを返す（クラッシュさせない）。
func (s *CartRedisStore) Load(ctx context.Context, scope string) (cart.Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(scope)).Result()
	if errors.Is(err, redis.Nil) {
		return cart.Cart{}, nil
	}
	if err != nil {
		return cart.Cart{}, err
	}

	var c cart.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		//壊れたデータは捨てて空扱い
		s.log.WithField("scope", scope).WithError(err).Warn("discarding malformed cart data")
		return cart.Cart{}, nil
	}
	return c, nil
}

func (s *CartRedisStore) Save(ctx context.Context, scope string, c cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(scope), raw, s.ttl).Err()
}

func (s *CartRedisStore) Delete(ctx context.Context, scope string) error {
	return s.client.Del(ctx, cartKey(scope)).Err()
}
