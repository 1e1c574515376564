package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallClock_ScanAndRelabel(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	tests := []struct {
		name string
		src  interface{}
		want time.Time
	}{
		{
			name: "time from postgres",
			src:  time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
			want: time.Date(2025, 6, 1, 14, 30, 0, 0, kolkata),
		},
		{
			name: "sqlite text",
			src:  "2025-06-01 14:30:00",
			want: time.Date(2025, 6, 1, 14, 30, 0, 0, kolkata),
		},
		{
			name: "bytes with offset",
			src:  []byte("2025-06-01 14:30:00+05:30"),
			want: time.Date(2025, 6, 1, 14, 30, 0, 0, kolkata),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w WallClock
			require.NoError(t, w.Scan(tt.src))
			assert.True(t, w.Valid)
			assert.True(t, tt.want.Equal(w.In(kolkata)), "got %v", w.In(kolkata))
		})
	}
}

func TestWallClock_Null(t *testing.T) {
	var w WallClock
	require.NoError(t, w.Scan(nil))
	assert.False(t, w.Valid)
	assert.Nil(t, w.PtrIn(time.UTC))

	v, err := w.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestWallClock_ValueDropsOffset(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	w := NewWallClock(time.Date(2025, 6, 1, 9, 0, 0, 0, loc))

	v, err := w.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01 09:00:00", v)
}

func TestWallClock_ScanGarbage(t *testing.T) {
	var w WallClock
	assert.Error(t, w.Scan("not a time"))
	assert.Error(t, w.Scan(42))
}
