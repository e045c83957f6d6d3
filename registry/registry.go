/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"net"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/suparena/mothership/datastore"
	"github.com/suparena/mothership/errors"
	"github.com/suparena/mothership/storagemodels"
)

// Operation names carried by UnavailableError
const (
	OpRegister = "register"
	OpResolve  = "resolve"
	OpAudit    = "audit"
)

// RegisterParams describes a registration request.
type RegisterParams struct {
	Topic  string
	NodeID string
	Port   int
	// ObservedHost is the source host seen by the transport
	ObservedHost string
}

// Service implements Register and Resolve over a shared DataStore.
type Service struct {
	store datastore.DataStore
	log   logrus.FieldLogger
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used for transition and corruption records
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// New creates a Service. The store is borrowed, not owned: closing it is the
// caller's job.
func New(store datastore.DataStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks a registration request without touching the store.
func (p RegisterParams) Validate() error {
	if p.Topic == "" {
		return errors.NewValidationError("topic_name", "must not be empty")
	}
	if p.NodeID == "" {
		return errors.NewValidationError("node_id", "must not be empty")
	}
	if strings.Contains(p.NodeID, storagemodels.Separator) {
		return errors.NewValidationError("node_id", "must not contain "+strconv.Quote(storagemodels.Separator))
	}
	if p.Port < 1 || p.Port > 65535 {
		return errors.NewValidationError("node_port", "must be between 1 and 65535")
	}
	if p.ObservedHost == "" {
		return errors.NewValidationError("host", "caller address is unknown")
	}
	if strings.Contains(p.ObservedHost, storagemodels.Separator) {
		return errors.NewValidationError("host", "must not contain "+strconv.Quote(storagemodels.Separator))
	}
	return nil
}

// Address joins the observed host with the caller-supplied port.
func (p RegisterParams) Address() string {
	return net.JoinHostPort(p.ObservedHost, strconv.Itoa(p.Port))
}

// Register records the caller as the owner of p.Topic, replacing any previous
// owner. A store failure is returned as an UnavailableError and is not retried.
func (s *Service) Register(ctx context.Context, p RegisterParams) error {
	if err := p.Validate(); err != nil {
		return err
	}

	record := storagemodels.OwnerRecord{Address: p.Address(), NodeID: p.NodeID}
	encoded := record.Encode()

	log := s.log.WithField("topic_name", p.Topic)

	previous, err := s.store.Put(ctx, []byte(p.Topic), encoded)
	if errors.IsValidationError(err) {
		return err
	}
	if err != nil {
		log.WithError(err).Error("failed to insert into mothership db")
		return errors.NewUnavailableError(OpRegister, p.Topic, err)
	}

	if previous != nil {
		if utf8.Valid(previous) {
			log.WithFields(logrus.Fields{
				"previous": string(previous),
				"new":      string(encoded),
			}).Info("node location updated")
		} else {
			log.WithField("previous_raw", previous).Warn("previous owner record is not valid text; overwritten")
		}
	}

	log.WithFields(logrus.Fields{
		"node_id":      record.NodeID,
		"node_address": record.Address,
	}).Info("successfully registered node with mothership")
	return nil
}

// Resolve returns the current owner of topic. Failures are, in priority
// order: unavailable store, unknown topic, corrupt record.
func (s *Service) Resolve(ctx context.Context, topic string) (*storagemodels.Resolution, error) {
	if topic == "" {
		return nil, errors.NewValidationError("topic_name", "must not be empty")
	}

	raw, err := s.store.Get(ctx, []byte(topic))
	switch {
	case err == nil:
	case errors.IsNotFound(err):
		return nil, errors.NewNotFoundError("topic", topic)
	case errors.IsValidationError(err):
		return nil, err
	default:
		s.log.WithError(err).WithField("topic_name", topic).Error("failed to read from mothership db")
		return nil, errors.NewUnavailableError(OpResolve, topic, err)
	}

	record, err := s.decode(topic, raw)
	if err != nil {
		return nil, err
	}

	return &storagemodels.Resolution{
		Address: record.Address,
		NodeID:  record.NodeID,
		Topic:   topic,
	}, nil
}

// decode parses a stored value, logging undecodable ones with the raw bytes
// for operator inspection.
func (s *Service) decode(topic string, raw []byte) (storagemodels.OwnerRecord, error) {
	record, err := storagemodels.DecodeOwnerRecord(raw)
	if err != nil {
		fields := logrus.Fields{"topic_name": topic}
		if utf8.Valid(raw) {
			fields["node_data"] = string(raw)
		} else {
			fields["node_data_raw"] = raw
		}
		s.log.WithFields(fields).WithError(err).Error("bad data in mothership entry")
		return storagemodels.OwnerRecord{}, errors.NewCorruptRecordError(topic, raw, err.Error())
	}
	return record, nil
}
