package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL combines a base server URL with a database name.
// An empty name returns the base URL untouched. sslmode=disable is added
// when the URL does not choose a mode itself.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, _ := strings.Cut(strings.TrimRight(baseURL, "/"), "?")
	// A trailing slash may precede the query string
	base = strings.TrimRight(base, "/")

	values, err := url.ParseQuery(query)
	if err != nil {
		values = url.Values{}
	}
	if values.Get("sslmode") == "" {
		if query != "" {
			query += "&"
		}
		query += "sslmode=disable"
	}

	return base + "/" + databaseName + "?" + query
}
