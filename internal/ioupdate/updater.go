// Package ioupdate implements the Updater interface. It runs the whole
// ingestion: optional download of the registry, parsing of the XML cache
// and population of the database.
// This is an impure I/O package.
package ioupdate

import (
	"context"
	"log/slog"
	"time"

	"github.com/eduregistry/edureg/internal/iofetch"
	"github.com/eduregistry/edureg/internal/iometrics"
	"github.com/eduregistry/edureg/internal/iopopulate"
	"github.com/eduregistry/edureg/internal/ioxml"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/edureg"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
)

type updater struct {
	cfg      *config.Config
	operator db.Operator
	metrics  *iometrics.Metrics
}

// New creates an Updater. The operator has to be connected.
func New(cfg *config.Config, op db.Operator) edureg.Updater {
	return &updater{cfg: cfg, operator: op, metrics: iometrics.New()}
}

// Update runs fetch (when requested), parse and populate. Every log line
// of the run carries the same run_id. Metrics are written to
// metrics.textfile when it is set, also after a failed run.
func (u *updater) Update(
	ctx context.Context,
	fetch bool,
) (edureg.UpdateStats, error) {
	runID := uuid.NewString()
	log := slog.With("run_id", runID)
	start := time.Now()
	log.Info("Starting update", "fetch", fetch, "dir", u.cfg.XMLDir())

	stats, err := u.update(ctx, fetch, log)
	stats.Duration = time.Since(start)
	u.metrics.ObserveRun(stats.Duration, err)

	if path := u.cfg.Metrics.Textfile; path != "" {
		if werr := u.metrics.WriteTextfile(path); werr != nil {
			log.Error("Cannot write metrics", "path", path, "error", werr)
			if err == nil {
				err = werr
			}
		}
	}

	if err != nil {
		log.Error("Update failed", "error", err)
		return stats, err
	}

	log.Info("Update complete",
		"fetched", stats.Fetched,
		"records", stats.Parse.Records,
		"orgs_created", stats.Populate.OrgsCreated,
		"duration", gnfmt.TimeString(stats.Duration.Seconds()),
	)
	return stats, nil
}

func (u *updater) update(
	ctx context.Context,
	fetch bool,
	log *slog.Logger,
) (edureg.UpdateStats, error) {
	var stats edureg.UpdateStats

	if fetch {
		files, err := iofetch.New(u.cfg, log).Fetch(ctx)
		if err != nil {
			return stats, err
		}
		stats.Fetched = len(files)
	}

	recs, pst, err := ioxml.New(u.cfg, log).Parse(ctx, u.cfg.XMLDir())
	stats.Parse = pst
	u.metrics.ObserveParse(pst)
	if err != nil {
		return stats, err
	}

	popst, err := iopopulate.New(u.cfg, u.operator, log).Populate(ctx, recs)
	stats.Populate = popst
	u.metrics.ObservePopulate(popst)
	if err != nil {
		return stats, err
	}
	return stats, nil
}
