package weather

import "time"

// maxDailyEntries caps how many calendar days FormatWeatherData reports.
const maxDailyEntries = 3

// FormatWeatherData reshapes provider payloads into the dashboard view.
// Daily holds the first sample of each of the earliest three UTC calendar
// dates in forecast order; fewer dates yield fewer entries.
func FormatWeatherData(current CurrentWeather, forecast Forecast) FormattedWeather {
	type dayKey string

	daily := make([]DailyForecast, 0, maxDailyEntries)
	seen := make(map[dayKey]struct{}, maxDailyEntries)

	for _, item := range forecast.List {
		k := dayKey(time.Unix(item.Dt, 0).UTC().Format("2006-01-02"))

		if _, ok := seen[k]; ok || len(daily) >= maxDailyEntries {
			continue
		}

		seen[k] = struct{}{}
		daily = append(daily, DailyForecast{
			Dt:      item.Dt,
			Temp:    DailyTemp{Day: item.Main.Temp},
			Weather: item.Weather,
		})
	}

	return FormattedWeather{
		Current: CurrentSummary{
			Temp:      current.Main.Temp,
			Weather:   current.Weather,
			Humidity:  current.Main.Humidity,
			WindSpeed: current.Wind.Speed,
		},
		Daily: daily,
	}
}
