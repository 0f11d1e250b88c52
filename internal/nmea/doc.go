// Package nmea decodes NMEA-0183 sentences embedded in arbitrary log text.
//
// A line may carry a logging prefix (ISO-8601 or Unix epoch PC timestamps,
// device tags) and trailing noise around a single $...*hh sentence. Decoding
// is split in two steps:
//   - Locate/Verify/Classify find the sentence, check its XOR checksum and
//     name its message type.
//   - Decoder.Decode applies the per-type field grammar and returns a typed
//     Record (GGA, ZDA, RMC, GST, GSV, VTG, HDT, PASHR, GGK).
//
// Numeric values are decimal.Decimal so repeated differencing does not drift.
// Optional fields that fail to parse become invalid decimal.NullDecimal values
// (the NaN sentinel) and are listed in the record's Degraded slice.
//
// Most sentences carry only a time of day. Passing a non-zero ContextDate to
// Decode promotes those times to full timestamps. When streaming a long log
// the caller must roll the date over at UTC midnight.
package nmea
