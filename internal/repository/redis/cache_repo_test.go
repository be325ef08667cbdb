package redis

import (
	"testing"

	"github.com/DRSN-tech/aircon-backend/internal/repository/redis/converter"
)

func TestDecodeCached(t *testing.T) {
	tests := []struct {
		name    string
		val     any
		wantID  int64
		wantNil bool
		wantErr bool
	}{
		{name: "miss", val: nil, wantNil: true},
		{name: "string", val: `{"id":7,"name":"Split 9000"}`, wantID: 7},
		{name: "bytes", val: []byte(`{"id":8}`), wantID: 8},
		{name: "broken json", val: `{"id":`, wantErr: true},
		{name: "unexpected type", val: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCached[converter.ProductInfoRedisModel](tt.val)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("got %+v, want nil", got)
				}
				return
			}
			if got.ID != tt.wantID {
				t.Fatalf("id = %d, want %d", got.ID, tt.wantID)
			}
		})
	}
}
