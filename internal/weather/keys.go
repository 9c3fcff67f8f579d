package weather

import (
	"fmt"
	"strings"
)

// Cache keys use one namespace per operation kind so a search result can
// never shadow a forecast. Coordinates are rounded to 4 decimals (~11m),
// matching the precision sent upstream.

func currentKey(latitude, longitude float64) string {
	return fmt.Sprintf("current_%s_%s", formatCoordinate(latitude), formatCoordinate(longitude))
}

func forecastKey(latitude, longitude float64) string {
	return fmt.Sprintf("forecast_%s_%s", formatCoordinate(latitude), formatCoordinate(longitude))
}

func searchKey(query string) string {
	return "search_" + strings.ToLower(strings.TrimSpace(query))
}

func reverseKey(latitude, longitude float64) string {
	return fmt.Sprintf("reverse_%s_%s", formatCoordinate(latitude), formatCoordinate(longitude))
}
