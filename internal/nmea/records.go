package nmea

import "github.com/shopspring/decimal"

// Record is a decoded sentence. The concrete type is one of *GGA, *ZDA,
// *RMC, *GST, *GSV, *VTG, *HDT, *PASHR or *GGK.
type Record interface {
	Type() MessageType
	// DegradedFields lists optional fields that failed to parse and were
	// replaced by an invalid decimal.NullDecimal.
	DegradedFields() []string
}

type degradation struct {
	Degraded []string
}

func (d degradation) DegradedFields() []string { return d.Degraded }

// GGA is a position fix.
type GGA struct {
	Time       Timestamp
	Latitude   decimal.Decimal
	Longitude  decimal.Decimal
	Quality    decimal.Decimal
	Satellites decimal.Decimal
	HDOP       decimal.Decimal

	AntennaHeight   decimal.NullDecimal
	GeoidSeparation decimal.NullDecimal
	DGPSAge         decimal.NullDecimal
	StationID       decimal.NullDecimal

	degradation
}

// ZDA carries the full UTC date and time.
type ZDA struct {
	Time            Timestamp
	TZOffsetHours   decimal.NullDecimal
	TZOffsetMinutes decimal.NullDecimal

	degradation
}

// RMC is the recommended minimum fix. FixStatus is 1 for 'A', else 0.
type RMC struct {
	Time      Timestamp
	FixStatus int
	Latitude  decimal.Decimal
	Longitude decimal.Decimal
	Knots     decimal.Decimal
	Course    decimal.Decimal

	degradation
}

// GST reports pseudorange error statistics.
type GST struct {
	Time         Timestamp
	ResidualRMS  decimal.Decimal
	SemiMajor    decimal.Decimal
	SemiMinor    decimal.Decimal
	Orientation  decimal.Decimal
	Lat1Sigma    decimal.Decimal
	Lon1Sigma    decimal.Decimal
	Height1Sigma decimal.Decimal

	degradation
}

// GSV lists satellites in view. PRN, Elevation, Azimuth and SNR are
// parallel slices with one entry per satellite group in the sentence.
type GSV struct {
	Messages   decimal.Decimal
	MessageNum decimal.Decimal
	VisibleSVs decimal.Decimal

	PRN       []decimal.Decimal
	Elevation []decimal.Decimal
	Azimuth   []decimal.NullDecimal
	SNR       []decimal.NullDecimal

	degradation
}

// VTG is course and speed over ground.
type VTG struct {
	Course decimal.Decimal
	Knots  decimal.Decimal
	Kmph   decimal.Decimal

	degradation
}

// HDT is true heading.
type HDT struct {
	Heading decimal.Decimal

	degradation
}

// PASHR is the proprietary attitude sentence.
type PASHR struct {
	Time             Timestamp
	Heading          decimal.Decimal
	Roll             decimal.Decimal
	Pitch            decimal.Decimal
	Heave            decimal.Decimal
	RollAccuracy     decimal.Decimal
	PitchAccuracy    decimal.Decimal
	HeadingAccuracy  decimal.Decimal
	HeadingAlgorithm decimal.Decimal
	IMUStatus        decimal.Decimal

	degradation
}

// GGK is the Trimble time, position and ellipsoidal height sentence.
type GGK struct {
	Time              Timestamp
	Latitude          decimal.Decimal
	Longitude         decimal.Decimal
	Quality           decimal.Decimal
	Satellites        decimal.Decimal
	DOP               decimal.Decimal
	EllipsoidalHeight decimal.Decimal

	degradation
}

func (*GGA) Type() MessageType   { return TypeGGA }
func (*ZDA) Type() MessageType   { return TypeZDA }
func (*RMC) Type() MessageType   { return TypeRMC }
func (*GST) Type() MessageType   { return TypeGST }
func (*GSV) Type() MessageType   { return TypeGSV }
func (*VTG) Type() MessageType   { return TypeVTG }
func (*HDT) Type() MessageType   { return TypeHDT }
func (*PASHR) Type() MessageType { return TypePASHR }
func (*GGK) Type() MessageType   { return TypeGGK }
