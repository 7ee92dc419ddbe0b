package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a charm logger at debug
// level. Failures are logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.logger.Warn(msg+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnScanStart(_ context.Context, dir string) {
	h.logger.Debug("scan started", "dir", dir)
}

func (h *LogHooks) OnScanComplete(_ context.Context, dir string, files, outputs int, d time.Duration, err error) {
	h.done("scan", err, "dir", dir, "files", files, "outputs", outputs, "duration", d)
}

func (h *LogHooks) OnRankStart(_ context.Context, outputs int) {
	h.logger.Debug("rank started", "outputs", outputs)
}

func (h *LogHooks) OnRankComplete(_ context.Context, keys, levels int, d time.Duration, err error) {
	h.done("rank", err, "keys", keys, "levels", levels, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", err, "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnCacheRetry(_ context.Context, op string, attempt int, err error) {
	h.logger.Warn("cache retry", "op", op, "attempt", attempt, "err", err)
}
