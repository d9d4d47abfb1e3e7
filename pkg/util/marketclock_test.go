package util

import "testing"

func TestFormatMarketTime(t *testing.T) {
    cases := []struct {
        minute int
        want   string
    }{
        {0, "12:00 AM"},
        {1, "12:01 AM"},
        {570, "9:30 AM"},
        {719, "11:59 AM"},
        {720, "12:00 PM"},
        {960, "4:00 PM"},
        {1439, "11:59 PM"},
        {1440, "12:00 AM"},
        {-5, "11:55 PM"},
    }

    for _, tc := range cases {
        if got := FormatMarketTime(tc.minute); got != tc.want {
            t.Errorf("FormatMarketTime(%d) = %q, want %q", tc.minute, got, tc.want)
        }
    }
}
