package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Source row columns
const (
	colID = iota
	colDateTime
	colYear
	colMonth
	colDayOfMonth
	colDayOfWeek
	colHour
	colSensorID
	colSensorName
	colHourlyCounts

	// RowFields is the number of columns a source row must carry
	RowFields
)

// ParseRow converts the columns of one source row into a Record.
//
// Expected columns: ID, Date_Time, Year, Month (name), Mdate, Day (weekday
// name), Time (hour), Sensor_ID, Sensor_Name, Hourly_Counts. Extra columns
// are ignored. Date_Time and Sensor_ID are joined verbatim into Key.
func ParseRow(fields []string) (*Record, error) {
	if len(fields) < RowFields {
		return nil, &FormatError{
			Field:  "row",
			Offset: -1,
			Reason: fmt.Sprintf("expected at least %d fields, got %d", RowFields, len(fields)),
		}
	}

	id, err := parseUint32("id", fields[colID])
	if err != nil {
		return nil, err
	}
	year, err := parseUint32("year", fields[colYear])
	if err != nil {
		return nil, err
	}
	month, err := parseMonth(fields[colMonth])
	if err != nil {
		return nil, err
	}
	day, err := parseUint8("day_of_month", fields[colDayOfMonth], 1, 31)
	if err != nil {
		return nil, err
	}
	weekday, err := parseWeekday(fields[colDayOfWeek])
	if err != nil {
		return nil, err
	}
	hour, err := parseUint8("hour", fields[colHour], 0, 23)
	if err != nil {
		return nil, err
	}
	sensorID, err := parseUint32("sensor_id", fields[colSensorID])
	if err != nil {
		return nil, err
	}
	counts, err := parseUint32("hourly_counts", fields[colHourlyCounts])
	if err != nil {
		return nil, err
	}

	if year > 9999 {
		return nil, &FormatError{Field: "year", Offset: -1, Reason: fmt.Sprintf("%d does not fit YYYY", year)}
	}
	ts := time.Date(int(year), month, int(day), int(hour), 0, 0, 0, time.UTC)
	if ts.Month() != month || ts.Day() != int(day) {
		return nil, &FormatError{
			Field:  "day_of_month",
			Offset: -1,
			Reason: fmt.Sprintf("%s %d, %d is not a calendar date", month, day, year),
		}
	}

	return &Record{
		ID:           id,
		Timestamp:    ts.Format(TimestampLayout),
		Year:         year,
		Month:        uint8(month),
		DayOfMonth:   day,
		DayOfWeek:    weekday,
		Hour:         hour,
		SensorID:     sensorID,
		HourlyCounts: counts,
		SensorName:   fields[colSensorName],
		Key:          fields[colDateTime] + "_" + fields[colSensorID],
	}, nil
}

func parseUint32(name, s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, &FormatError{Field: name, Offset: -1, Err: err}
	}
	return uint32(v), nil
}

func parseUint8(name, s string, lo, hi uint64) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, &FormatError{Field: name, Offset: -1, Err: err}
	}
	if v < lo || v > hi {
		return 0, &FormatError{Field: name, Offset: -1, Reason: fmt.Sprintf("%d outside [%d, %d]", v, lo, hi)}
	}
	return uint8(v), nil
}

func parseMonth(s string) (time.Month, error) {
	name := strings.TrimSpace(s)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return 0, &FormatError{Field: "month", Offset: -1, Reason: fmt.Sprintf("unknown month %q", s)}
}

// parseWeekday maps a weekday name to 1 (Monday) .. 7 (Sunday)
func parseWeekday(s string) (uint8, error) {
	name := strings.TrimSpace(s)
	for d := uint8(1); d <= 7; d++ {
		if strings.EqualFold(isoWeekday(d).String(), name) {
			return d, nil
		}
	}
	return 0, &FormatError{Field: "day_of_week", Offset: -1, Reason: fmt.Sprintf("unknown weekday %q", s)}
}

func isoWeekday(d uint8) time.Weekday {
	return time.Weekday(d % 7)
}
