package nmea

import (
	"errors"
	"fmt"
	"testing"
)

func nmeaLine(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X", payload, ck)
}

const ggaSample = "$GPGGA,154809.00,4305.52462642,N,07051.89568468,W,1,3,4.1,48.971,M,-32.985,M,,*54"

func TestLocate_WithPrefixAndSuffix(t *testing.T) {
	line := "RTK1_GPS         DATA    2008-11-21T15:48:10.510017      " + ggaSample + "\r\n"
	s, err := Locate(line)
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if s.Raw != ggaSample {
		t.Fatalf("raw=%q want %q", s.Raw, ggaSample)
	}
	if s.Checksum != "54" {
		t.Fatalf("checksum=%q want 54", s.Checksum)
	}
	if s.Text() != ggaSample[:len(ggaSample)-3] {
		t.Fatalf("text=%q", s.Text())
	}
}

func TestLocate_NotFound(t *testing.T) {
	cases := []string{
		"",
		"no sentence here",
		"GPGGA,154809.00,4305.5,N*54",
		"$GPGGA,154809.00,4305.5,N",
		// A single checksum digit is not a checksum.
		"$GPGGA,154809.00,4305.52462642,N,07051.89568468,W,1,3,4.1,48.971,M,-32.985,M,,*5",
	}
	for _, line := range cases {
		if _, err := Locate(line); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Locate(%q) err=%v want ErrNotFound", line, err)
		}
	}
}

func TestChecksum_ZeroPadded(t *testing.T) {
	// '0' ^ '5' == 0x05
	if got := FormatChecksum(Checksum("05")); got != "05" {
		t.Fatalf("checksum=%q want 05", got)
	}
	if _, err := Verify("$05*05"); err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
}

func TestVerify_KnownSentences(t *testing.T) {
	lines := []string{
		ggaSample,
		"1473622989.451 $GNGGA,194309.9,4308.15154,N,07056.35631,W,1,13,0.7,42.4,M,-31.9,M,,*43",
		"posnav  2008:226:18:31:34.1365  $INGGA,183133.898,7120.91996,N,15651.72629,W,1,11,0.8,-1.06,M,,,,*19",
		"09/12/2003,04:01:46.666,$GPGGA,040145.871,7117.3458,N,15700.3788,W,1,06,1.4,014.6,M,-000.4,M,,*50",
	}
	for _, line := range lines {
		if _, err := Verify(line); err != nil {
			t.Fatalf("Verify(%q) error: %v", line, err)
		}
	}
}

func TestVerify_LowerCaseChecksum(t *testing.T) {
	rmc := "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6a"
	if _, err := Verify(rmc); err != nil {
		t.Fatalf("Verify(lower) error: %v", err)
	}
}

func TestVerify_FlippedBit(t *testing.T) {
	bad := ggaSample[:len(ggaSample)-1] + "5" // 0x54 -> 0x55
	_, err := Verify(bad)
	if !errors.Is(err, ErrChecksumFailed) {
		t.Fatalf("err=%v want ErrChecksumFailed", err)
	}

	if _, err := Decode(bad, Date{}); !errors.Is(err, ErrChecksumFailed) {
		t.Fatalf("Decode err=%v want ErrChecksumFailed", err)
	}
}

func TestVerify_MissingDelimitersFailsChecksum(t *testing.T) {
	_, err := Verify("$GPGGA,154809.00,4305.5,N")
	if !errors.Is(err, ErrChecksumFailed) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrChecksumFailed wrapping ErrNotFound", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want MessageType
	}{
		{"$GPGGA,1", TypeGGA},
		{"$GPZDA,1", TypeZDA},
		{"$GNRMC,1", TypeRMC},
		{"$GPGST,1", TypeGST},
		{"$GPGSV,1", TypeGSV},
		{"$GPVTG,1", TypeVTG},
		{"$HEHDT,1", TypeHDT},
		{"$PASHR,1", TypePASHR},
		{"$PTNL,GGK,1", TypeGGK},
	}
	for _, tc := range cases {
		got, err := Classify(tc.text)
		if err != nil {
			t.Fatalf("Classify(%q) error: %v", tc.text, err)
		}
		if got != tc.want {
			t.Fatalf("Classify(%q)=%s want %s", tc.text, got, tc.want)
		}
	}

	if _, err := Classify("$GPGSA,A,3"); !errors.Is(err, ErrUnrecognizedSentence) {
		t.Fatalf("err=%v want ErrUnrecognizedSentence", err)
	}
}

func TestClassify_FirstMatchIsStable(t *testing.T) {
	text := "$GPRMC,GGA,GST"
	for i := 0; i < 50; i++ {
		got, err := Classify(text)
		if err != nil {
			t.Fatalf("Classify() error: %v", err)
		}
		if got != TypeGGA {
			t.Fatalf("iteration %d: got %s want GGA", i, got)
		}
	}
	if got, _ := Classify("$GPRMC,GST"); got != TypeRMC {
		t.Fatalf("got %s want RMC", got)
	}
}

func TestParseMessageType(t *testing.T) {
	for _, mt := range MessageTypes() {
		got, err := ParseMessageType(mt.String())
		if err != nil {
			t.Fatalf("ParseMessageType(%q) error: %v", mt, err)
		}
		if got != mt {
			t.Fatalf("got %s want %s", got, mt)
		}
	}
	if got, _ := ParseMessageType(" pashr "); got != TypePASHR {
		t.Fatalf("got %s want PASHR", got)
	}
	if _, err := ParseMessageType("GSA"); !errors.Is(err, ErrUnrecognizedSentence) {
		t.Fatalf("err=%v want ErrUnrecognizedSentence", err)
	}
	if len(MessageTypes()) != 9 {
		t.Fatalf("types=%d want 9", len(MessageTypes()))
	}
}
