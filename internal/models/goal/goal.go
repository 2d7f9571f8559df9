package goal

const MinPriority = 0
const MaxPriority = 10

// Forecast — горизонт цели.
type Forecast string

const ForecastShort Forecast = "Short"
const ForecastMedium Forecast = "Medium"
const ForecastLong Forecast = "Long"

func (f Forecast) Valid() bool {
	return f == ForecastShort || f == ForecastMedium || f == ForecastLong
}

type Goal struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"-" db:"user_id"`
	Goal         string    `json:"goal" db:"goal"`
	Priority     int       `json:"priority" db:"priority"`
	Accomplished bool      `json:"accomplished" db:"accomplished"`
	Forecast     *Forecast `json:"forecast,omitempty" db:"forecast"`
}
