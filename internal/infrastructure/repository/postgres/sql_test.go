package postgres

import (
	"database/sql"
	"testing"
)

func TestNullInt64ToIntPtr(t *testing.T) {
	t.Run("valid value", func(t *testing.T) {
		got := nullInt64ToIntPtr(sql.NullInt64{Int64: 22, Valid: true})
		if got == nil || *got != 22 {
			t.Fatalf("expected 22, got %v", got)
		}
	})

	t.Run("null stays nil", func(t *testing.T) {
		if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestIntPtrToNullInt64_RoundTrip(t *testing.T) {
	points := 10
	got := intPtrToNullInt64(&points)
	if !got.Valid || got.Int64 != 10 {
		t.Fatalf("unexpected null int: %+v", got)
	}
	if back := nullInt64ToIntPtr(got); back == nil || *back != points {
		t.Fatalf("round trip lost value: %v", back)
	}
	if intPtrToNullInt64(nil).Valid {
		t.Fatal("nil pointer should map to null")
	}
}

func TestStringToNullString(t *testing.T) {
	if stringToNullString("").Valid {
		t.Fatal("empty string should map to null")
	}
	got := stringToNullString("u-1")
	if !got.Valid || got.String != "u-1" {
		t.Fatalf("unexpected null string: %+v", got)
	}
	if nullStringToString(sql.NullString{}) != "" {
		t.Fatal("null should map to empty string")
	}
}
