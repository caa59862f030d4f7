package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"eduverify/internal/verification/models"
	dErrors "eduverify/pkg/domain-errors"
	"eduverify/pkg/requestcontext"
)

// Store reads and writes the verification request collection through a KV.
type Store struct {
	kv     KV
	key    string
	logger *slog.Logger
}

func New(kv KV, key string, logger *slog.Logger) *Store {
	return &Store{kv: kv, key: key, logger: logger}
}

// LoadAll returns the full collection, upgrading legacy records on the way
// out. An absent or unparseable blob yields an empty collection, never an
// error: a corrupt store must not brick the portal.
func (s *Store) LoadAll(ctx context.Context) ([]models.VerificationRequest, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "load verification requests")
	}
	if !ok || len(raw) == 0 {
		return []models.VerificationRequest{}, nil
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.WarnContext(ctx, "verification collection is corrupt, starting empty",
			"error", err,
		)
		return []models.VerificationRequest{}, nil
	}

	now := requestcontext.Now(ctx)
	for _, rec := range records {
		Normalize(rec, now)
	}

	upgraded, err := json.Marshal(records)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "re-encode verification requests")
	}

	var out []models.VerificationRequest
	if err := json.Unmarshal(upgraded, &out); err != nil {
		s.logger.WarnContext(ctx, "verification collection failed schema decode, starting empty",
			"error", err,
		)
		return []models.VerificationRequest{}, nil
	}
	return out, nil
}

// SaveAll replaces the whole collection. The caller serializes access; the
// store itself performs no read-modify-write.
func (s *Store) SaveAll(ctx context.Context, requests []models.VerificationRequest) error {
	if requests == nil {
		requests = []models.VerificationRequest{}
	}
	raw, err := json.Marshal(requests)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "encode verification requests")
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorage, "save verification requests")
	}
	return nil
}

// Append loads the collection, adds one request and writes it back.
func (s *Store) Append(ctx context.Context, req models.VerificationRequest) error {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}
	return s.SaveAll(ctx, append(all, req))
}
