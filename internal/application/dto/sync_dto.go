package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SyncRequest marca de agua del cliente; null o ausente pide una copia completa.
type SyncRequest struct {
	LastSyncTime *Watermark `json:"lastSyncTime" swaggertype:"string"`
}

// Since devuelve la marca de agua, nil si el cliente no envió ninguna.
func (r SyncRequest) Since() *time.Time {
	if r.LastSyncTime == nil || r.LastSyncTime.IsZero() {
		return nil
	}
	t := r.LastSyncTime.Time
	return &t
}

// Watermark instante en RFC 3339 o en milisegundos desde epoch (número JSON).
type Watermark struct {
	time.Time
}

func (w *Watermark) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("lastSyncTime: %w", err)
		}
		w.Time = t
		return nil
	default:
		ms, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("lastSyncTime: se espera fecha RFC 3339 o milisegundos: %w", err)
		}
		w.Time = time.UnixMicro(int64(ms * 1000)).UTC()
		return nil
	}
}

// SyncResponse cambios desde lastSyncTime; el cliente guarda serverTime como próxima marca.
type SyncResponse struct {
	ServerTime time.Time      `json:"serverTime"`
	Updates    map[string]any `json:"updates"`
}
