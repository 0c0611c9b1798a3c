package testament

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/testament/errors"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantErr  *errors.Error
		wantTime UnixTime
	}{
		"number": {
			raw:      "1500000000",
			wantTime: 1500000000,
		},
		"zero": {
			raw:      "0",
			wantTime: 0,
		},
		"string time": {
			raw:      `"2017-07-14T02:40:00Z"`,
			wantTime: 1500000000,
		},
		"negative number": {
			raw:     "-5",
			wantErr: errors.ErrInput,
		},
		"garbage": {
			raw:     `"tomorrow"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil && got != tc.wantTime {
				t.Fatalf("want %d, got %d", tc.wantTime, got)
			}
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	base := UnixTime(100)
	if got := base.Add(5 * time.Second); got != 105 {
		t.Fatalf("want 105, got %d", got)
	}
	if got := base.AddSeconds(-50); got != 50 {
		t.Fatalf("want 50, got %d", got)
	}
	if got := AsUnixTime(base.Time()); got != base {
		t.Fatalf("conversion is not reversible: %d", got)
	}
}
