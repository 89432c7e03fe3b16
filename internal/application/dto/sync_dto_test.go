package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncRequest_Watermark(t *testing.T) {
	want := time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		body string
		want *time.Time
	}{
		{"ausente", `{}`, nil},
		{"null", `{"lastSyncTime":null}`, nil},
		{"cadena vacía", `{"lastSyncTime":""}`, nil},
		{"RFC 3339", `{"lastSyncTime":"2024-05-02T10:30:00Z"}`, &want},
		{"RFC 3339 con zona", `{"lastSyncTime":"2024-05-02T05:30:00-05:00"}`, &want},
		{"milisegundos", `{"lastSyncTime":1714645800000}`, &want},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in SyncRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			got := in.Since()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func TestSyncRequest_WatermarkInvalid(t *testing.T) {
	for _, body := range []string{`{"lastSyncTime":"ayer"}`, `{"lastSyncTime":true}`} {
		var in SyncRequest
		assert.Error(t, json.Unmarshal([]byte(body), &in), body)
	}
}
