package domain

import "time"

type CityLocation struct {
	City        string
	Country     string
	Lat         float64
	Lng         float64
	Timezone    string
	Region      string
	IsActive    bool
	LastUpdated time.Time
}

// DefaultCityLocations returns the reference cities seeded into an empty store.
func DefaultCityLocations(now time.Time) []CityLocation {
	seed := []struct {
		city, tz, region string
		lat, lng         float64
	}{
		{"Halifax", "America/Halifax", "Atlantic", 44.6488, -63.5752},
		{"Vancouver", "America/Vancouver", "Pacific", 49.2827, -123.1207},
		{"Ottawa", "America/Toronto", "Central", 45.4215, -75.6972},
		{"Toronto", "America/Toronto", "Central", 43.6532, -79.3832},
		{"Montreal", "America/Toronto", "Central", 45.5017, -73.5673},
		{"Calgary", "America/Edmonton", "Mountain", 51.0447, -114.0719},
		{"Winnipeg", "America/Winnipeg", "Central", 49.8951, -97.1384},
		{"Quebec City", "America/Toronto", "Central", 46.8139, -71.2080},
		{"Edmonton", "America/Edmonton", "Mountain", 53.5461, -113.4938},
		{"Saskatoon", "America/Regina", "Central", 52.1332, -106.6700},
	}

	out := make([]CityLocation, 0, len(seed))
	for _, s := range seed {
		out = append(out, CityLocation{
			City:        s.city,
			Country:     "Canada",
			Lat:         s.lat,
			Lng:         s.lng,
			Timezone:    s.tz,
			Region:      s.region,
			IsActive:    true,
			LastUpdated: now,
		})
	}
	return out
}
