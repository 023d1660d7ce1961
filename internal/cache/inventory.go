package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	CatalogKeyName   = "catalog"
	ChannelKeyPrefix = "channel:%d"
	PostKeyPrefix    = "post:%d"
	UserKeyPrefix    = "user:%d"
)

const (
	// CatalogTTL is short because the cached tree carries per-channel post
	// counts that drift with every new post.
	CatalogTTL = 2 * time.Minute
	ChannelTTL = 10 * time.Minute
	PostTTL    = 30 * time.Minute
	UserTTL    = 15 * time.Minute
)

// CatalogKey returns the cache key for the full category/channel tree.
func CatalogKey() string {
	return CatalogKeyName
}

func ChannelKey(channelID uint) string {
	return fmt.Sprintf(ChannelKeyPrefix, channelID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateCatalog drops the cached category/channel tree. Called after any
// catalog mutation and after post creation/deletion (post counts change).
func InvalidateCatalog(ctx context.Context) {
	Invalidate(ctx, CatalogKey())
}

func InvalidateChannel(ctx context.Context, channelID uint) {
	Invalidate(ctx, ChannelKey(channelID))
	InvalidateCatalog(ctx)
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
