package weather

// Units is the unit system requested from the provider.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// OrDefault returns u, or UnitsMetric when u is empty.
func (u Units) OrDefault() Units {
	if u == "" {
		return UnitsMetric
	}
	return u
}

// Coordinates is a resolved geographic position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Condition is one weather condition descriptor as reported by the provider.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// MainReading holds the provider's "main" block.
type MainReading struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
	Gust  float64 `json:"gust,omitempty"`
}

// CurrentWeather is the provider's current conditions payload.
// Weather always carries at least one entry.
type CurrentWeather struct {
	Coord    Coordinates `json:"coord"`
	Weather  []Condition `json:"weather"`
	Main     MainReading `json:"main"`
	Wind     Wind        `json:"wind"`
	Dt       int64       `json:"dt"`
	Timezone int         `json:"timezone"`
	Name     string      `json:"name"`
}

// ForecastSample is a single 3-hour interval of the forecast.
type ForecastSample struct {
	Dt      int64       `json:"dt"`
	Main    MainReading `json:"main"`
	Weather []Condition `json:"weather"`
	Wind    Wind        `json:"wind"`
	DtTxt   string      `json:"dt_txt"`
}

type ForecastCity struct {
	Name     string      `json:"name"`
	Country  string      `json:"country"`
	Coord    Coordinates `json:"coord"`
	Timezone int         `json:"timezone"`
}

// Forecast is the provider's multi-day forecast. List is ordered by Dt ascending.
type Forecast struct {
	List []ForecastSample `json:"list"`
	City ForecastCity     `json:"city"`
}

// FormattedWeather is the simplified shape served to the dashboard.
type FormattedWeather struct {
	Current CurrentSummary  `json:"current"`
	Daily   []DailyForecast `json:"daily"`
}

type CurrentSummary struct {
	Temp      float64     `json:"temp"`
	Weather   []Condition `json:"weather"`
	Humidity  int         `json:"humidity"`
	WindSpeed float64     `json:"wind_speed"`
}

// DailyForecast is the first forecast sample seen for a calendar day.
type DailyForecast struct {
	Dt      int64       `json:"dt"`
	Temp    DailyTemp   `json:"temp"`
	Weather []Condition `json:"weather"`
}

type DailyTemp struct {
	Day float64 `json:"day"`
}
