package pexels

import "strings"

// BuildSearchQuery turns a destination into a search query. The country
// narrows ambiguous city names ("Paris" in Texas and in France).
func BuildSearchQuery(city, country string) string {
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)

	switch {
	case city != "" && country != "":
		return city + " " + country
	case city != "":
		return city
	default:
		return country
	}
}
