/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/suparena/mothership/errors"
	"github.com/suparena/mothership/storagemodels"
)

// CorruptEntry is a stored value that Resolve would reject.
type CorruptEntry struct {
	Topic  string
	Raw    []byte
	Reason string
}

// AuditReport summarises a full pass over the directory.
type AuditReport struct {
	Total   int
	Valid   int
	Corrupt []CorruptEntry
}

// Audit walks every stored record and reports the ones that cannot be
// decoded. It never modifies the store.
func (s *Service) Audit(ctx context.Context, opts ...storagemodels.StreamOption) (*AuditReport, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	report := &AuditReport{}
	for result := range s.store.Stream(ctx, opts...) {
		if result.Error != nil {
			s.log.WithError(result.Error).Error("directory scan failed")
			return report, errors.NewUnavailableError(OpAudit, "", result.Error)
		}

		report.Total++
		topic := string(result.Entry.Key)
		if _, err := s.decode(topic, result.Entry.Value); err != nil {
			var reason string
			if cre, ok := err.(*errors.CorruptRecordError); ok {
				reason = cre.Reason
			}
			report.Corrupt = append(report.Corrupt, CorruptEntry{
				Topic:  topic,
				Raw:    result.Entry.Value,
				Reason: reason,
			})
			continue
		}
		report.Valid++
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	s.log.WithFields(logrus.Fields{
		"total":   report.Total,
		"valid":   report.Valid,
		"corrupt": len(report.Corrupt),
	}).Info("directory audit complete")
	return report, nil
}
