// Package kv 提供通用的键值存储抽象：Get / Set / GetByPrefix / Delete。
// 自定义挑战、用户资料以及进度快照都保存在这里。
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	GetByPrefix(ctx context.Context, prefix string) (map[string][]byte, error)
	Delete(ctx context.Context, key string) error
}
