package models

// NewsColor is a presentation hint for the sink; the core never renders it.
type NewsColor string

const (
	NewsColorGreen NewsColor = "green"
	NewsColorRed   NewsColor = "red"
)

// NewsEvent is a headline the simulation emitted, e.g. on a breakout.
type NewsEvent struct {
	ID     string    `json:"id"`
	Ticker string    `json:"ticker"`
	Text   string    `json:"text"`
	Color  NewsColor `json:"color"`
	Day    int       `json:"day"`
	Time   int       `json:"time"`
}
