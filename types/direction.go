package types

type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// MonthFormat is the calendar month key used for transaction counters.
const MonthFormat = "2006-01"

// DateFormat is the day format used in CSV input and output.
const DateFormat = "2006-01-02"
