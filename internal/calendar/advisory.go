package calendar

import (
	"fmt"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// DescribeForecastImpact returns the advisory shown on an event card. It is a
// pure function of the event.
//
// Outdoor events are checked in order: rain, snow, thunder, below 10°C,
// above 28°C, above 22°C, otherwise favorable. Indoor events get a travel
// advisory for rain or snow, a clothing advisory below 5°C or above 30°C,
// and a pleasant-trip note otherwise.
func DescribeForecastImpact(e Event) string {
	desc := e.Forecast.Description
	temp := e.Forecast.TemperatureC
	title := e.Title

	var summary, advice string
	if e.IsOutdoor {
		switch {
		case common.HasAny(desc, "rain"):
			summary = "Rainy conditions expected"
			advice = fmt.Sprintf("Don't forget to bring umbrellas and waterproof gear to %s. You might want a backup plan just in case.", title)
		case common.HasAny(desc, "snow"):
			summary = "Snowy weather expected"
			advice = fmt.Sprintf("For %s, warm waterproof clothing and boots will be essential. Check travel conditions before heading out.", title)
		case common.HasAny(desc, "thunder"):
			summary = "Thunderstorms expected"
			advice = fmt.Sprintf("%s might need to be rescheduled for safety - we'll keep you updated on conditions.", title)
		case temp < 10:
			summary = "Cold conditions"
			advice = fmt.Sprintf("Bundle up for %s with warm layers and winter accessories.", title)
		case temp > 28:
			summary = "Hot conditions"
			advice = fmt.Sprintf("For %s, bring plenty of water, sunscreen, and try to find shaded areas.", title)
		case temp > 22:
			summary = "Warm and pleasant"
			advice = fmt.Sprintf("Perfect weather for %s! Just remember sunscreen and stay hydrated.", title)
		default:
			summary = desc
			advice = fmt.Sprintf("Looking good for %s! Weather conditions are favorable.", title)
		}
	} else {
		summary = desc
		switch {
		case common.HasAny(desc, "rain", "snow"):
			advice = fmt.Sprintf("Allow extra travel time to reach %s.", title)
		case temp < 5 || temp > 30:
			advice = fmt.Sprintf("Dress comfortably for your journey to %s.", title)
		default:
			advice = fmt.Sprintf("Should be a pleasant trip to %s.", title)
		}
	}

	return fmt.Sprintf("Weather for %s in %s: %s (%d°C). %s", title, e.Location, summary, temp, advice)
}
