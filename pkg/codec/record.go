package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the layout of Record.Timestamp (YYYYMMDDHH, 24-hour)
const TimestampLayout = "2006010215"

// TimestampWidth is the fixed on-disk width of the timestamp text
const TimestampWidth = len(TimestampLayout)

// HeaderSize is the encoded size of a record with an empty sensor name and
// an empty key
const HeaderSize = 38

// ObservationSchema is the on-disk layout of one sensor observation
var ObservationSchema = NewSchema(
	Field{Name: "id", Kind: KindUint32},
	Field{Name: "timestamp", Kind: KindText, Width: TimestampWidth},
	Field{Name: "year", Kind: KindUint32},
	Field{Name: "month", Kind: KindUint8},
	Field{Name: "day_of_month", Kind: KindUint8},
	Field{Name: "day_of_week", Kind: KindUint8},
	Field{Name: "hour", Kind: KindUint8},
	Field{Name: "sensor_id", Kind: KindUint32},
	Field{Name: "hourly_counts", Kind: KindUint32},
	Field{Name: "sensor_name", Kind: KindBlob},
	Field{Name: "key", Kind: KindBlob},
)

// Record is one decoded sensor observation
type Record struct {
	ID           uint32 // Source row id
	Timestamp    string // YYYYMMDDHH
	Year         uint32
	Month        uint8 // 1-12
	DayOfMonth   uint8
	DayOfWeek    uint8 // 1-7, Monday is 1
	Hour         uint8 // 0-23
	SensorID     uint32
	HourlyCounts uint32
	SensorName   string
	Key          string // <Date_Time>_<Sensor_ID>, the scan predicate target
}

// Size returns the total size of the record when encoded
func (r *Record) Size() int {
	return HeaderSize + len(r.SensorName) + len(r.Key)
}

// DateTime returns the source Date_Time text embedded in the key: everything
// before the last underscore. The sensor id part never contains one.
func (r *Record) DateTime() string {
	i := strings.LastIndexByte(r.Key, '_')
	if i < 0 {
		return r.Key
	}
	return r.Key[:i]
}

// Row renders the record back into the ten source columns. Date_Time and
// Sensor_Name come back verbatim; numeric columns come back as canonical
// decimals, so a source "07" is rendered as "7".
func (r *Record) Row() []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.DateTime(),
		strconv.FormatUint(uint64(r.Year), 10),
		time.Month(r.Month).String(),
		strconv.Itoa(int(r.DayOfMonth)),
		isoWeekday(r.DayOfWeek).String(),
		strconv.Itoa(int(r.Hour)),
		strconv.FormatUint(uint64(r.SensorID), 10),
		r.SensorName,
		strconv.FormatUint(uint64(r.HourlyCounts), 10),
	}
}

func (r *Record) String() string {
	return fmt.Sprintf("ID=%d, Sensor_Id=%d, Sensor_Name=%s, SDT_NAME=%s, Hourly_Counts=%d",
		r.ID, r.SensorID, r.SensorName, r.Key, r.HourlyCounts)
}

func (r *Record) values() []any {
	return []any{
		r.ID,
		r.Timestamp,
		r.Year,
		r.Month,
		r.DayOfMonth,
		r.DayOfWeek,
		r.Hour,
		r.SensorID,
		r.HourlyCounts,
		r.SensorName,
		r.Key,
	}
}

func recordFromValues(v []any) *Record {
	return &Record{
		ID:           v[0].(uint32),
		Timestamp:    v[1].(string),
		Year:         v[2].(uint32),
		Month:        v[3].(uint8),
		DayOfMonth:   v[4].(uint8),
		DayOfWeek:    v[5].(uint8),
		Hour:         v[6].(uint8),
		SensorID:     v[7].(uint32),
		HourlyCounts: v[8].(uint32),
		SensorName:   v[9].(string),
		Key:          v[10].(string),
	}
}

// RecordCodec handles serialization and deserialization of records.
// It holds no mutable state and is safe for concurrent use.
type RecordCodec struct {
	schema *Schema
}

// NewRecordCodec creates a codec for ObservationSchema
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{schema: ObservationSchema}
}

// Encode serializes a record
func (c *RecordCodec) Encode(r *Record) ([]byte, error) {
	if r == nil {
		return nil, &FormatError{Field: "record", Offset: -1, Reason: "nil record"}
	}
	return c.schema.Encode(r.values())
}

// EncodeFields parses a source row and serializes it
func (c *RecordCodec) EncodeFields(fields []string) ([]byte, error) {
	r, err := ParseRow(fields)
	if err != nil {
		return nil, err
	}
	return c.Encode(r)
}

// Decode deserializes the record starting at offset and returns it together
// with the number of bytes it occupies
func (c *RecordCodec) Decode(data []byte, offset int) (*Record, int, error) {
	values, n, err := c.schema.Decode(data, offset)
	if err != nil {
		return nil, 0, err
	}
	return recordFromValues(values), n, nil
}
