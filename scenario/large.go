// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package scenario

import (
	"context"
	"time"

	"github.com/UNO-SOFT/fixture"
)

// SmallDataRows is the number of SmallData rows of LargeVolume, header excluded.
const SmallDataRows = 50

// LargeVolume returns the LargeData sheet with opts.LargeRows personnel rows
// and the SmallData sheet with SmallDataRows products.
func LargeVolume(ctx context.Context, opts Options) (*fixture.Workbook, error) {
	n := opts.LargeRows
	if n == 0 {
		n = DefaultLargeRows
	}
	logger := opts.logger()
	start := time.Now()
	b, s := opts.builder(), opts.synthesizer()
	if _, err := synthesize(ctx, b, s, "personnel", n); err != nil {
		return nil, err
	}
	if _, err := synthesize(ctx, b, s, "products_small", SmallDataRows); err != nil {
		return nil, err
	}
	wb, err := b.Finalize()
	logger.Info("large volume", "rows", n, "dur", time.Since(start).String(), "error", err)
	return wb, err
}
