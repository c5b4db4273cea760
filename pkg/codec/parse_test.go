package codec

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRow(t *testing.T) {
	r, err := ParseRow(sampleRow())
	require.NoError(t, err)

	assert.Equal(t, &Record{
		ID:           2887628,
		Timestamp:    "2019110117",
		Year:         2019,
		Month:        11,
		DayOfMonth:   1,
		DayOfWeek:    5,
		Hour:         17,
		SensorID:     34,
		HourlyCounts: 300,
		SensorName:   "Flinders St-Spark La",
		Key:          "11/01/2019 05:00:00 PM_34",
	}, r)
}

func TestParseRow_Lenient(t *testing.T) {
	t.Run("names are case-insensitive and trimmed", func(t *testing.T) {
		row := sampleRow()
		row[3] = " NOVEMBER"
		row[5] = "friday "
		r, err := ParseRow(row)
		require.NoError(t, err)
		assert.Equal(t, uint8(11), r.Month)
		assert.Equal(t, uint8(5), r.DayOfWeek)
	})

	t.Run("extra columns are ignored", func(t *testing.T) {
		row := append(sampleRow(), "extra", "columns")
		_, err := ParseRow(row)
		assert.NoError(t, err)
	})

	t.Run("zero-padded numerals", func(t *testing.T) {
		row := sampleRow()
		row[4] = "01"
		row[6] = "07"
		row[7] = "034"
		r, err := ParseRow(row)
		require.NoError(t, err)
		assert.Equal(t, uint8(1), r.DayOfMonth)
		assert.Equal(t, uint8(7), r.Hour)
		assert.Equal(t, uint32(34), r.SensorID)
		assert.Equal(t, "2019110107", r.Timestamp)
		assert.Equal(t, "11/01/2019 05:00:00 PM_034", r.Key)

		got := r.Row()
		assert.Equal(t, "11/01/2019 05:00:00 PM", got[1])
		assert.Equal(t, []string{"1", "7", "34"}, []string{got[4], got[6], got[7]})
	})

	t.Run("midnight uses 24-hour clock", func(t *testing.T) {
		row := sampleRow()
		row[6] = "0"
		r, err := ParseRow(row)
		require.NoError(t, err)
		assert.Equal(t, "2019110100", r.Timestamp)
	})
}

func TestParseRow_Weekdays(t *testing.T) {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	for i, name := range names {
		t.Run(name, func(t *testing.T) {
			row := sampleRow()
			row[5] = name
			r, err := ParseRow(row)
			require.NoError(t, err)
			assert.Equal(t, uint8(i+1), r.DayOfWeek)
			assert.Equal(t, name, r.Row()[5])
		})
	}
}

func TestParseRow_FormatErrors(t *testing.T) {
	testCases := []struct {
		name  string
		col   int
		value string
		field string
	}{
		{"non-integer id", 0, "abc", "id"},
		{"negative id", 0, "-1", "id"},
		{"id overflow", 0, strconv.FormatUint(1<<32, 10), "id"},
		{"non-integer year", 2, "20x9", "year"},
		{"five digit year", 2, "10000", "year"},
		{"unknown month", 3, "Novembre", "month"},
		{"day of month zero", 4, "0", "day_of_month"},
		{"day of month too large", 4, "32", "day_of_month"},
		{"impossible date", 4, "31", "day_of_month"},
		{"unknown weekday", 5, "Funday", "day_of_week"},
		{"hour out of range", 6, "24", "hour"},
		{"non-integer sensor id", 7, "s34", "sensor_id"},
		{"non-integer counts", 9, "3.5", "hourly_counts"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row := sampleRow()
			row[tc.col] = tc.value

			_, err := ParseRow(row)
			require.Error(t, err)

			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestParseRow_TooFewFields(t *testing.T) {
	_, err := ParseRow(sampleRow()[:RowFields-1])
	require.Error(t, err)

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "row", fe.Field)
	assert.Contains(t, err.Error(), "expected at least 10 fields")
}

func TestRecordCodec_EncodeFieldsDeterministic(t *testing.T) {
	codec := NewRecordCodec()

	a, err := codec.EncodeFields(sampleRow())
	require.NoError(t, err)
	b, err := codec.EncodeFields(sampleRow())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
