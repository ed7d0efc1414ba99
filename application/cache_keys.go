package application

import "fmt"

// Cache keys for the aggregate read paths. Writes invalidate these keys;
// nothing ever refreshes them synchronously.
const (
	CacheKeyPlatformStats = "platform_stats"
	CacheKeyLandingDraws  = "landing_draws"
)

// CacheKeyDrawDetail returns the per-draw detail cache key
func CacheKeyDrawDetail(drawID int64) string {
	return fmt.Sprintf("draw_detail:%d", drawID)
}
