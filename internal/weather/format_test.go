package weather_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/weathertest"
)

func TestFormatWeatherDataKeepsFirstSampleOfThreeEarliestDays(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	forecast := weather.Forecast{List: []weather.ForecastSample{
		weathertest.Sample(day, 10, "a"),
		weathertest.Sample(day.Add(3*time.Hour), 11, "b"),
		weathertest.Sample(day.Add(24*time.Hour), 12, "c"),
		weathertest.Sample(day.Add(27*time.Hour), 99, "d"),
		weathertest.Sample(day.Add(48*time.Hour), 13, "e"),
		weathertest.Sample(day.Add(72*time.Hour), 14, "f"),
	}}

	out := weather.FormatWeatherData(weather.CurrentWeather{}, forecast)

	if len(out.Daily) != 3 {
		t.Fatalf("expected 3 daily entries, got %d", len(out.Daily))
	}
	wantTemps := []float64{10, 12, 13}
	wantDt := []int64{day.Unix(), day.Add(24 * time.Hour).Unix(), day.Add(48 * time.Hour).Unix()}
	for i, d := range out.Daily {
		if d.Temp.Day != wantTemps[i] {
			t.Errorf("entry %d: expected temp %v, got %v", i, wantTemps[i], d.Temp.Day)
		}
		if d.Dt != wantDt[i] {
			t.Errorf("entry %d: expected dt %d, got %d", i, wantDt[i], d.Dt)
		}
	}
	if out.Daily[0].Weather[0].Description != "a" {
		t.Errorf("expected first sample's conditions, got %+v", out.Daily[0].Weather)
	}
}

func TestFormatWeatherDataDoesNotPad(t *testing.T) {
	day := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	forecast := weather.Forecast{List: []weather.ForecastSample{
		weathertest.Sample(day, 10, "a"),
		weathertest.Sample(day.Add(3*time.Hour), 11, "b"),
		weathertest.Sample(day.Add(24*time.Hour), 12, "c"),
	}}

	out := weather.FormatWeatherData(weather.CurrentWeather{}, forecast)
	if len(out.Daily) != 2 {
		t.Fatalf("expected 2 daily entries, got %d", len(out.Daily))
	}

	empty := weather.FormatWeatherData(weather.CurrentWeather{}, weather.Forecast{})
	if empty.Daily == nil || len(empty.Daily) != 0 {
		t.Fatalf("expected empty non-nil daily list, got %#v", empty.Daily)
	}
}

func TestFormatWeatherDataUsesUTCDates(t *testing.T) {
	// 23:30 and 00:30 UTC fall on different days regardless of the host zone.
	late := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	forecast := weather.Forecast{List: []weather.ForecastSample{
		weathertest.Sample(late, 10, "a"),
		weathertest.Sample(late.Add(time.Hour), 11, "b"),
	}}

	out := weather.FormatWeatherData(weather.CurrentWeather{}, forecast)
	if len(out.Daily) != 2 {
		t.Fatalf("expected 2 daily entries, got %d", len(out.Daily))
	}
}

func TestFormatWeatherDataCurrentSection(t *testing.T) {
	current := weather.CurrentWeather{
		Main:    weather.MainReading{Temp: 22.5, Humidity: 60},
		Weather: []weather.Condition{{Description: "clear", Icon: "01d"}, {Description: "haze", Icon: "50d"}},
		Wind:    weather.Wind{Speed: 3.1, Deg: 180},
	}

	out := weather.FormatWeatherData(current, weather.Forecast{})

	body, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Current map[string]json.RawMessage `json:"current"`
		Daily   []json.RawMessage          `json:"daily"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"temp", "weather", "humidity", "wind_speed"} {
		if _, ok := decoded.Current[field]; !ok {
			t.Errorf("expected current.%s in %s", field, body)
		}
	}
	if out.Current.Temp != 22.5 || out.Current.Humidity != 60 || out.Current.WindSpeed != 3.1 {
		t.Errorf("unexpected current summary: %+v", out.Current)
	}
	if len(out.Current.Weather) != 2 {
		t.Errorf("expected full condition list, got %+v", out.Current.Weather)
	}
}
