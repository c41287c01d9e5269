package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("%w: read user_db.json: %w", ErrStorageUnavailable, errors.New("permission denied"))
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable in chain, got %v", err)
	}
	if errors.Is(err, ErrStorageCorrupt) {
		t.Fatalf("did not expect ErrStorageCorrupt in chain")
	}
}
