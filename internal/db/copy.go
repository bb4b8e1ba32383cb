package db

import (
	"github.com/jackc/pgx/v5"
)

// ChannelSource implements pgx.CopyFromSource by reading rows from a
// channel, giving natural backpressure between the Parquet reader and the
// COPY writer. The values function maps a row to its COPY column values;
// prefix values (run_id, statement) are prepended to every row.
type ChannelSource[T any] struct {
	ch      <-chan T
	prefix  []any
	values  func(T) []any
	current T
	err     error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource[T any](ch <-chan T, prefix []any, values func(T) []any) *ChannelSource[T] {
	return &ChannelSource[T]{ch: ch, prefix: prefix, values: values}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource[T]) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource[T]) Values() ([]any, error) {
	vals := make([]any, 0, len(s.prefix)+16)
	vals = append(vals, s.prefix...)
	vals = append(vals, s.values(s.current)...)
	return vals, nil
}

// Err returns any error encountered during iteration.
func (s *ChannelSource[T]) Err() error {
	return s.err
}

// Compile-time check that ChannelSource satisfies the interface.
var _ pgx.CopyFromSource = (*ChannelSource[int])(nil)
