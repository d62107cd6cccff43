package utils_test

import (
	"testing"
	"time"

	"bling-sync/core/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name    string
		input   string
		want    *time.Time
		wantErr bool
	}{
		{"Empty", "", nil, false},
		{"Zero Date", "0000-00-00", nil, false},
		{"Zero Timestamp", "0000-00-00 00:00:00", nil, false},
		{"Date", "2024-03-05", ptr(time.Date(2024, 3, 5, 0, 0, 0, 0, loc)), false},
		{"Timestamp", "2024-03-05 14:30:01", ptr(time.Date(2024, 3, 5, 14, 30, 1, 0, loc)), false},
		{"Garbage", "05/03/2024", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := utils.ParseDate(tt.input, loc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func TestDates(t *testing.T) {
	ts := time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-02", utils.FormatDate(ts))
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), utils.DateOnly(ts))
	assert.True(t, utils.SameDay(ts, utils.DateOnly(ts)))
	assert.False(t, utils.SameDay(ts, ts.Add(time.Minute)))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"venda", "nfe-saida"}, utils.SplitList(" Venda, ,nfe-saida,venda"))
	assert.Nil(t, utils.SplitList(""))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "12345678901", utils.OriginalID(12345678901))
	assert.Equal(t, "açã", utils.Truncate("açãx", 3))
	assert.Equal(t, "ab", utils.Truncate("ab", 3))
	assert.Equal(t, "b", utils.FirstNonEmpty("", "  ", "b", "c"))
}

func ptr(t time.Time) *time.Time { return &t }
