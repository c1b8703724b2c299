// Package iopopulate implements the Populator interface. It upserts
// organization records produced by the certificate parser into the
// registry inside one transaction.
// This is an impure I/O package.
package iopopulate

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/eduregistry/edureg/internal/iostore"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/edureg"
	"github.com/eduregistry/edureg/pkg/record"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"gorm.io/gorm"
)

// populator implements the Populator interface.
type populator struct {
	cfg      *config.Config
	sessions *iostore.Sessions
	log      *slog.Logger
}

// New creates a new Populator. When logger is nil the default logger is
// used.
func New(
	cfg *config.Config,
	op db.Operator,
	logger *slog.Logger,
) edureg.Populator {
	if logger == nil {
		logger = slog.Default()
	}
	return &populator{
		cfg:      cfg,
		sessions: iostore.NewSessions(op),
		log:      logger,
	}
}

// Populate resolves organizations of all records (pass 1) and then links
// parents and programs (pass 2). Both passes run in one transaction, any
// error rolls back everything written by this call.
func (p *populator) Populate(
	ctx context.Context,
	recs []record.Organization,
) (edureg.PopulateStats, error) {
	var stats edureg.PopulateStats
	if len(recs) == 0 {
		p.log.Info("No records to populate")
		return stats, nil
	}

	start := time.Now()
	p.log.Info("Starting population", "records", len(recs))

	err := p.sessions.Scope(ctx, func(tx *gorm.DB) error {
		r := newRun(p.cfg, tx, p.log)
		if err := r.resolveOrganizations(ctx, recs); err != nil {
			return err
		}
		if err := r.linkParents(ctx, recs); err != nil {
			return err
		}
		if err := r.linkPrograms(ctx, recs); err != nil {
			return err
		}
		stats = r.stats
		return nil
	})
	if err != nil {
		p.log.Error("Population rolled back", "error", err)
		return edureg.PopulateStats{}, PopulateError(len(recs), err)
	}

	stats.Records = len(recs)
	stats.Duration = time.Since(start)
	p.report(stats)
	return stats, nil
}

func (p *populator) report(stats edureg.PopulateStats) {
	dur := gnfmt.TimeString(stats.Duration.Seconds())
	p.log.Info("Population complete",
		"records", stats.Records,
		"orgs_created", stats.OrgsCreated,
		"orgs_found", stats.OrgsFound,
		"orgs_updated", stats.OrgsUpdated,
		"orgs_duplicate", stats.OrgsDuplicate,
		"regions_created", stats.RegionsCreated,
		"no_region", stats.NoRegion,
		"parents_linked", stats.ParentsLinked,
		"parents_refused", stats.ParentsRefused,
		"programs_linked", stats.ProgramsLinked,
		"specialties_unknown", stats.SpecialtiesUnknown,
		"duration", dur,
	)

	if !p.cfg.Ingest.ShowProgress {
		return
	}
	gn.Info(`Population complete
Records: %s, organizations created: %s, found: %s.
Regions created: %s, programs linked: %s.
Elapsed time: <em>%s</em>`,
		humanize.Comma(int64(stats.Records)),
		humanize.Comma(int64(stats.OrgsCreated)),
		humanize.Comma(int64(stats.OrgsFound)),
		humanize.Comma(int64(stats.RegionsCreated)),
		humanize.Comma(int64(stats.ProgramsLinked)),
		dur,
	)
}
