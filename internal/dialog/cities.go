package dialog

// Canonical names of the supported cities.
const (
	Moscow          = "Moscow"
	SaintPetersburg = "Saint Petersburg"
)

// DefaultRegionCode is the region qualifier attached to any recognized
// location. A single supported locale is assumed; this is not a general
// geocoding resolution.
const DefaultRegionCode = "RU"

// Provider query parameters for the single supported response locale.
const (
	ResponseLang  = "ru"
	ResponseUnits = "metric"
)

// CityInfo describes one supported city.
type CityInfo struct {
	Name       string
	RegionCode string
	Latitude   float64
	Longitude  float64
}

var knownCities = map[string]CityInfo{
	Moscow: {
		Name:       Moscow,
		RegionCode: DefaultRegionCode,
		Latitude:   55.7558,
		Longitude:  37.6173,
	},
	SaintPetersburg: {
		Name:       SaintPetersburg,
		RegionCode: DefaultRegionCode,
		Latitude:   59.9343,
		Longitude:  30.3351,
	},
}

// LookupCity resolves a canonical city name to its coordinates and region.
func LookupCity(name string) (CityInfo, bool) {
	info, ok := knownCities[name]
	return info, ok
}

// KnownCity builds a City slot value for a supported city.
func KnownCity(name string) *City {
	return &City{Name: name, Known: true}
}

// UnknownCity builds a City slot value for a location the system has no
// data for; the raw extracted string is preserved.
func UnknownCity(name string) *City {
	return &City{Name: name, Known: false}
}
