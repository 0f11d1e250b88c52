package nmea

import "regexp"

// FieldSpec describes one positional field of a sentence. Index 0 is the
// talker+code field. Required fields abort the record when they fail to
// parse; optional ones degrade to the NaN sentinel.
//
// Latitude and longitude entries consume two fields: the value at Index
// and the hemisphere at Index+1.
type FieldSpec struct {
	Name     string
	Index    int
	Required bool
}

// Grammar is the field layout of one message type.
type Grammar struct {
	Type   MessageType
	Fields []FieldSpec

	// Group repeats from GroupStart in steps of len(Group) while a whole
	// group fits. Index values inside Group are offsets from the group start.
	Group      []FieldSpec
	GroupStart int

	shape *regexp.Regexp
}

func req(name string, idx int) FieldSpec { return FieldSpec{Name: name, Index: idx, Required: true} }
func opt(name string, idx int) FieldSpec { return FieldSpec{Name: name, Index: idx} }

// shape anchors on the code and the trailing *checksum. Group 1 is the
// comma separated payload handed to the field reader.
func shape(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(` + pattern + `.*)\*..`)
}

var grammars = map[MessageType]*Grammar{
	TypeGGA: {
		Type:  TypeGGA,
		shape: shape(`\$..GGA`),
		Fields: []FieldSpec{
			req("time", 1),
			req("latitude", 2),
			req("longitude", 4),
			req("quality", 6),
			req("satellites", 7),
			req("hdop", 8),
			opt("antenna_height", 9),
			opt("geoid_separation", 11),
			opt("dgps_age", 13),
			opt("station_id", 14),
		},
	},
	TypeZDA: {
		Type:  TypeZDA,
		shape: shape(`\$..ZDA`),
		Fields: []FieldSpec{
			req("time", 1),
			req("day", 2),
			req("month", 3),
			req("year", 4),
			opt("tz_offset_hours", 5),
			opt("tz_offset_minutes", 6),
		},
	},
	TypeRMC: {
		Type:  TypeRMC,
		shape: shape(`\$..RMC`),
		Fields: []FieldSpec{
			req("time", 1),
			req("fix_status", 2),
			req("latitude", 3),
			req("longitude", 5),
			req("knots", 7),
			req("course", 8),
			req("date", 9),
		},
	},
	TypeGST: {
		Type:  TypeGST,
		shape: shape(`\$..GST`),
		Fields: []FieldSpec{
			req("time", 1),
			req("residual_rms", 2),
			req("semi_major", 3),
			req("semi_minor", 4),
			req("orientation", 5),
			req("lat_1sigma", 6),
			req("lon_1sigma", 7),
			req("height_1sigma", 8),
		},
	},
	TypeGSV: {
		Type:  TypeGSV,
		shape: shape(`\$..GSV`),
		Fields: []FieldSpec{
			req("messages", 1),
			req("message_num", 2),
			req("visible_svs", 3),
		},
		GroupStart: 4,
		Group: []FieldSpec{
			req("prn", 0),
			req("elevation", 1),
			opt("azimuth", 2),
			opt("snr", 3),
		},
	},
	TypeVTG: {
		Type:  TypeVTG,
		shape: shape(`\$..VTG`),
		Fields: []FieldSpec{
			req("course", 1),
			req("knots", 5),
			req("kmph", 7),
		},
	},
	TypeHDT: {
		Type:  TypeHDT,
		shape: shape(`\$..HDT`),
		Fields: []FieldSpec{
			req("heading", 1),
		},
	},
	TypePASHR: {
		Type:  TypePASHR,
		shape: shape(`\$PASHR`),
		Fields: []FieldSpec{
			req("time", 1),
			req("heading", 2),
			req("roll", 4),
			req("pitch", 5),
			req("heave", 6),
			req("roll_accuracy", 7),
			req("pitch_accuracy", 8),
			req("heading_accuracy", 9),
			req("heading_algorithm", 10),
			req("imu_status", 11),
		},
	},
	// GGK fields count from the GGK code itself, so the $PTNL talker
	// is outside the payload.
	TypeGGK: {
		Type:  TypeGGK,
		shape: shape(`GGK`),
		Fields: []FieldSpec{
			req("time", 1),
			req("date", 2),
			req("latitude", 3),
			req("longitude", 5),
			req("quality", 7),
			req("satellites", 8),
			req("dop", 9),
			req("ellipsoidal_height", 10),
		},
	},
}

// GrammarFor returns the field layout of t, or nil for an unknown type.
// The returned value must not be modified.
func GrammarFor(t MessageType) *Grammar {
	return grammars[t]
}

func (g *Grammar) field(name string) FieldSpec {
	for _, f := range g.Fields {
		if f.Name == name {
			return f
		}
	}
	panic("nmea: " + g.Type.String() + " grammar has no field " + name)
}

func (g *Grammar) groupField(name string) FieldSpec {
	for _, f := range g.Group {
		if f.Name == name {
			return f
		}
	}
	panic("nmea: " + g.Type.String() + " grammar has no group field " + name)
}
