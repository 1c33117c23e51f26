package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Manager writes, reads and discards the session snapshot.
type Manager struct {
	slot   Slot
	now    func() time.Time
	logger zerolog.Logger
}

// NewManager creates a Manager over slot.
func NewManager(slot Slot, logger zerolog.Logger) *Manager {
	return &Manager{slot: slot, now: time.Now, logger: logger}
}

// Save stamps the snapshot and overwrites the slot.
func (m *Manager) Save(ctx context.Context, s *Snapshot) error {
	s.Timestamp = m.now().UTC()
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := m.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Pending returns the stored snapshot, or (nil, nil) when there is none.
// A snapshot that fails to decode is deleted and reported as an
// *intake.CorruptSnapshotError so the caller can show a fresh-start notice.
func (m *Manager) Pending(ctx context.Context) (*Snapshot, error) {
	data, err := m.slot.Read(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s, decodeErr := Decode(data)
	if decodeErr != nil {
		m.logger.Warn().Err(decodeErr).Msg("discarding unreadable snapshot")
		if err := m.slot.Delete(ctx); err != nil {
			m.logger.Error().Err(err).Msg("deleting unreadable snapshot")
		}
		return nil, decodeErr
	}
	return s, nil
}

// Discard deletes the stored snapshot.
func (m *Manager) Discard(ctx context.Context) error {
	return m.slot.Delete(ctx)
}
