package service

import (
	"context"
)

const defaultChunkSize = 50

// fetchAll pages through an offset/limit endpoint until a short page comes
// back or maxItems are collected (maxItems <= 0 means no cap).
func fetchAll[T any](
	ctx context.Context,
	fetch func(ctx context.Context, offset, limit int) ([]T, error),
	chunkSize int,
	maxItems int,
) ([]T, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	var all []T
	offset := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items, err := fetch(ctx, offset, chunkSize)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)

		if len(items) < chunkSize || (maxItems > 0 && len(all) >= maxItems) {
			break
		}
		offset += chunkSize
	}

	if maxItems > 0 && len(all) > maxItems {
		all = all[:maxItems]
	}
	return all, nil
}
