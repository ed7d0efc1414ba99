package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDraw_IsParticipable(t *testing.T) {
	t.Parallel()

	now := time.Now()
	future := now.Add(1 * time.Hour)
	past := now.Add(-1 * time.Hour)

	tests := []struct {
		name     string
		status   DrawStatus
		drawTime time.Time
		want     bool
	}{
		{
			name:     "upcoming with future draw time",
			status:   DrawStatusUpcoming,
			drawTime: future,
			want:     true,
		},
		{
			name:     "active with future draw time",
			status:   DrawStatusActive,
			drawTime: future,
			want:     true,
		},
		{
			name:     "active but draw time passed",
			status:   DrawStatusActive,
			drawTime: past,
			want:     false,
		},
		{
			name:     "upcoming but draw time passed",
			status:   DrawStatusUpcoming,
			drawTime: past,
			want:     false,
		},
		{
			name:     "ended",
			status:   DrawStatusEnded,
			drawTime: future,
			want:     false,
		},
		{
			name:     "cancelled",
			status:   DrawStatusCancelled,
			drawTime: future,
			want:     false,
		},
		{
			name:     "draw time exactly now",
			status:   DrawStatusActive,
			drawTime: now,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			draw := &Draw{
				Status:       tt.status,
				DrawDatetime: tt.drawTime,
			}

			assert.Equal(t, tt.want, draw.IsParticipable(now))
		})
	}
}

func TestDraw_IsDue(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name     string
		status   DrawStatus
		drawTime time.Time
		want     bool
	}{
		{
			name:     "active and past draw time",
			status:   DrawStatusActive,
			drawTime: now.Add(-1 * time.Minute),
			want:     true,
		},
		{
			name:     "active at exact draw time",
			status:   DrawStatusActive,
			drawTime: now,
			want:     true,
		},
		{
			name:     "active but future draw time",
			status:   DrawStatusActive,
			drawTime: now.Add(1 * time.Minute),
			want:     false,
		},
		{
			name:     "upcoming and past draw time",
			status:   DrawStatusUpcoming,
			drawTime: now.Add(-1 * time.Minute),
			want:     false,
		},
		{
			name:     "ended",
			status:   DrawStatusEnded,
			drawTime: now.Add(-1 * time.Minute),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			draw := &Draw{
				Status:       tt.status,
				DrawDatetime: tt.drawTime,
			}

			assert.Equal(t, tt.want, draw.IsDue(now))
		})
	}
}

func TestDraw_CanCancel(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Draw{Status: DrawStatusUpcoming}).CanCancel())
	assert.True(t, (&Draw{Status: DrawStatusActive}).CanCancel())
	assert.False(t, (&Draw{Status: DrawStatusEnded}).CanCancel())
	assert.False(t, (&Draw{Status: DrawStatusCancelled}).CanCancel())
}
