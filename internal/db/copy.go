package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/hopefoundation/hopedash/internal/model"
)

// ChannelSource implements pgx.CopyFromSource by reading ExportRows from a
// channel, so the row builder and the COPY writer run concurrently.
type ChannelSource struct {
	ch      <-chan *model.ExportRow
	current *model.ExportRow
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource(ch <-chan *model.ExportRow) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Err always returns nil; producer errors travel on their own channel.
func (s *ChannelSource) Err() error {
	return nil
}

var _ pgx.CopyFromSource = (*ChannelSource)(nil)
