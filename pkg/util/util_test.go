package util

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestFormatDate(t *testing.T) {
	ts := time.Date(2023, 11, 10, 8, 5, 9, 0, time.UTC)
	assert.Equal(t, "2023.11.10", FormatDate(ts, "YYYY.MM.DD"))
	assert.Equal(t, "10/11/23 08:05:09", FormatDate(ts, "DD/MM/YY hh:mm:ss"))
	assert.Equal(t, "", FormatDate(time.Time{}, "YYYY"))
}

func TestRandomBounds(t *testing.T) {
	assert.Equal(t, 0, RandomInt(0))
	for range 200 {
		n := RandomInt(3)
		assert.True(t, n >= 0 && n < 3)
		m := RandomIntInclusive(5, 2)
		assert.True(t, m >= 2 && m <= 5)
	}
	assert.Equal(t, 7, RandomIntInclusive(7, 7))
	assert.Equal(t, "", Pick[string](nil))
	assert.Equal(t, "x", Pick([]string{"x"}))
}

func TestParallelRunsAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	var sum atomic.Int64
	err := Parallel(context.Background(), []int{1, 2, 3, 4, 5}, 2, func(_ context.Context, n int) error {
		sum.Add(int64(n))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(15), sum.Load())
}

func TestParallelStopsOnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("boom")
	err := Parallel(context.Background(), []int{1, 2, 3, 4, 5, 6, 7, 8}, 3, func(_ context.Context, n int) error {
		if n == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}
