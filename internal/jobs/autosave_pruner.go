package jobs

import (
	"context"
	"time"

	"github.com/foliopress/foliopress-backend/internal/repository"
	"github.com/foliopress/foliopress-backend/internal/service"
	"github.com/foliopress/foliopress-backend/pkg/logger"
)

// AutosavePruner periodically trims autosave versions across recently
// edited content so frequent autosave ticks cannot grow storage without
// bound. Manual saves are never touched.
type AutosavePruner struct {
	versions service.VersionService
	contents repository.ContentRepository
	keep     int
	batch    int
	interval time.Duration
}

// NewAutosavePruner creates a new AutosavePruner
func NewAutosavePruner(versions service.VersionService, contents repository.ContentRepository, keep, batch int, interval time.Duration) *AutosavePruner {
	if keep < 1 {
		keep = 5
	}
	if batch < 1 {
		batch = 50
	}
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &AutosavePruner{
		versions: versions,
		contents: contents,
		keep:     keep,
		batch:    batch,
		interval: interval,
	}
}

// Start runs the sweep loop until ctx is canceled. Call in a goroutine.
func (p *AutosavePruner) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logger.GetLogger().Info().
		Int("keep", p.keep).
		Dur("interval", p.interval).
		Msg("autosave pruner started")

	for {
		select {
		case <-ctx.Done():
			logger.GetLogger().Info().Msg("autosave pruner stopped")
			return
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

func (p *AutosavePruner) sweep(ctx context.Context) {
	ids, err := p.contents.RecentlyEditedIDs(ctx, p.batch)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Msg("autosave sweep: listing recent content failed")
		return
	}

	var removed int64
	for _, id := range ids {
		n, err := p.versions.PruneAutosaves(ctx, id, p.keep)
		if err != nil {
			logger.GetLogger().Warn().Err(err).Uint("content_id", id).Msg("autosave prune failed")
			continue
		}
		removed += n
	}

	if removed > 0 {
		logger.GetLogger().Info().
			Int64("removed", removed).
			Int("content_scanned", len(ids)).
			Msg("autosave sweep complete")
	}
}
