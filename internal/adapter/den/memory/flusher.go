package memory

import (
	"context"
	"log/slog"

	"burrowverse/internal/app/ports"
)

// Flusher persists den state after each completed turn so stored food
// survives restarts. Failures are logged and the turn goes on.
type Flusher struct {
	Dir    *Directory
	Repo   ports.DenStateRepository
	Logger *slog.Logger
}

func (f *Flusher) TurnCompleted(summary ports.TurnSummary) {
	if f.Dir == nil || f.Repo == nil {
		return
	}
	ctx := context.Background()
	for _, rec := range f.Dir.Records() {
		if err := f.Repo.Upsert(ctx, summary.RunID, rec); err != nil {
			if f.Logger != nil {
				f.Logger.Warn("den state flush failed", "den_id", rec.DenID, "err", err)
			}
			return
		}
	}
}
