// Package codec provides record serialization and deserialization for heapdb.
//
// The codec package turns one sensor observation into the packed byte form
// stored inside heap file pages, and back. Offsets are not hand-computed:
// the layout is a declarative Schema interpreted by a single encode routine
// and a single decode routine.
//
// # Record Format
//
// All integers are big-endian. Text carries no terminator.
//
//	[ID(4)][Timestamp(10)][Year(4)][Month(1)][MDate(1)][Day(1)][Hour(1)]
//	[SensorID(4)][HourlyCounts(4)][NameLen(4)][SensorName][KeyLen(4)][Key]
//
// Fields:
//   - ID: source row id
//   - Timestamp: YYYYMMDDHH as ASCII, 24-hour clock
//   - Year, Month (1-12), MDate (day of month), Day (1-7, Monday is 1), Hour (0-23)
//   - SensorID, HourlyCounts: sensor identifier and observed count
//   - SensorName: variable-length sensor name
//   - Key: variable-length composite key <Date_Time>_<Sensor_ID>
//
// The total record size is: 38 bytes + len(SensorName) + len(Key)
//
// # Usage
//
//	c := codec.NewRecordCodec()
//
//	encoded, err := c.EncodeFields(row)
//	if err != nil {
//	    return err // *codec.FormatError
//	}
//
//	record, n, err := c.Decode(page, offset)
//	if err != nil {
//	    return err
//	}
//	offset += n
//
// # Error Handling
//
// Every parse and decode failure is a *FormatError naming the field and,
// for decode failures, the byte offset. Callers decide whether a bad row is
// skipped or aborts the load.
package codec
