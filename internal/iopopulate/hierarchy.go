package iopopulate

import (
	"context"

	"github.com/eduregistry/edureg/internal/iostore"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/record"
	"github.com/eduregistry/edureg/pkg/schema"
)

// linkParents is the first half of pass 2. With the head_id rule a record
// whose HeadSourceID names the SourceID of another organization becomes
// a branch of that organization. The hierarchy is one level deep.
func (r *run) linkParents(
	ctx context.Context,
	recs []record.Organization,
) error {
	if r.cfg.Ingest.ParentRule != config.ParentRuleHeadID {
		r.log.Debug("Parent linkage disabled",
			"parent_rule", r.cfg.Ingest.ParentRule)
		return nil
	}

	for i := range recs {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := &recs[i]
		if rec.HeadSourceID == "" || rec.HeadSourceID == rec.SourceID {
			continue
		}
		child, ok := r.cache.orgs[rec.OGRN]
		if !ok {
			continue
		}
		if err := r.linkParent(rec, child); err != nil {
			return err
		}
	}

	r.log.Info("Parents linked",
		"linked", r.stats.ParentsLinked,
		"refused", r.stats.ParentsRefused,
		"missing", r.stats.ParentsMissing,
	)
	return nil
}

func (r *run) linkParent(
	rec *record.Organization,
	child *schema.EducationalOrganization,
) error {
	parent, err := r.headOrganization(rec.HeadSourceID)
	if err != nil {
		return err
	}
	if parent == nil {
		r.stats.ParentsMissing++
		r.log.Debug("Head organization not found",
			"ogrn", rec.OGRN, "head_id", rec.HeadSourceID)
		return nil
	}

	if child.ParentID != nil && *child.ParentID == parent.ID {
		return nil
	}

	reason, err := r.refuseReason(child, parent)
	if err != nil {
		return err
	}
	if reason != "" {
		r.stats.ParentsRefused++
		r.log.Warn("Parent link refused",
			"ogrn", rec.OGRN, "parent_id", parent.ID, "reason", reason)
		return nil
	}

	err = r.tx.Model(child).Update("parent_id", parent.ID).Error
	if err != nil {
		return LinkParentError(rec.OGRN, err)
	}
	child.ParentID = &parent.ID
	r.stats.ParentsLinked++
	return nil
}

// headOrganization finds an organization by source Id, first among
// organizations of this run, then in the store.
func (r *run) headOrganization(
	sourceID string,
) (*schema.EducationalOrganization, error) {
	if org, ok := r.cache.bySource[sourceID]; ok {
		return org, nil
	}
	org, err := r.findOrganization("source_id", sourceID)
	if err != nil {
		return nil, err
	}
	if org != nil {
		org = r.cache.canonical(org)
		r.cache.bySource[sourceID] = org
	}
	return org, nil
}

// refuseReason returns a non-empty reason when the link would break the
// one level hierarchy.
func (r *run) refuseReason(
	child, parent *schema.EducationalOrganization,
) (string, error) {
	reason, err := iostore.ParentRefusal(r.tx, child, parent)
	if err != nil {
		return "", LinkParentError(schema.Value(child.OGRN), err)
	}
	return reason, nil
}
