package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// Period is the year and month an extract covers.
type Period struct {
	Year  int
	Month int
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ParseTableName reads the period from the last two underscore-separated
// segments of a table name, e.g. yellow_taxi_trips_2021_1 is January 2021.
func ParseTableName(table string) (Period, error) {
	parts := strings.Split(table, "_")
	if len(parts) < 2 {
		return Period{}, fmt.Errorf("table %q must end with _<year>_<month>: %w", table, taxiload.ErrNameFormat)
	}

	year, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return Period{}, fmt.Errorf("table %q: year segment %q is not a number: %w",
			table, parts[len(parts)-2], taxiload.ErrNameFormat)
	}
	month, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return Period{}, fmt.Errorf("table %q: month segment %q is not a number: %w",
			table, parts[len(parts)-1], taxiload.ErrNameFormat)
	}

	if year <= 0 || year > 9999 {
		return Period{}, fmt.Errorf("table %q: year %d out of range: %w", table, year, taxiload.ErrNameFormat)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("table %q: month %d out of range: %w", table, month, taxiload.ErrNameFormat)
	}

	return Period{Year: year, Month: month}, nil
}

// FileName returns the published file name for the period.
func FileName(p Period) string {
	return fmt.Sprintf("yellow_tripdata_%s.csv.gz", p)
}

// URL joins prefix and the period's file name.
func URL(prefix string, p Period) string {
	return strings.TrimRight(prefix, "/") + "/" + FileName(p)
}
