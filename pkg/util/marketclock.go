package util

import "fmt"

// FormatMarketTime renders a minute-of-day as a 12-hour clock label,
// e.g. 570 -> "9:30 AM", 0 -> "12:00 AM", 960 -> "4:00 PM".
func FormatMarketTime(minute int) string {
    minute %= 1440
    if minute < 0 {
        minute += 1440
    }

    h := minute / 60
    m := minute % 60

    suffix := "AM"
    if h >= 12 {
        suffix = "PM"
    }
    h12 := h % 12
    if h12 == 0 {
        h12 = 12
    }
    return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}
