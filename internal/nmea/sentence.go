package nmea

import (
	"fmt"
	"regexp"
	"strings"
)

// MessageType identifies one of the supported sentence formats.
type MessageType int

const (
	TypeUnknown MessageType = iota
	TypeGGA
	TypeZDA
	TypeRMC
	TypeGST
	TypeGSV
	TypeVTG
	TypeHDT
	TypePASHR
	TypeGGK
)

// classifyOrder is the sequence Classify tests codes in. A sentence that
// happens to contain more than one code resolves to the earliest entry.
var classifyOrder = []struct {
	code string
	typ  MessageType
}{
	{"GGA", TypeGGA},
	{"ZDA", TypeZDA},
	{"RMC", TypeRMC},
	{"GST", TypeGST},
	{"GSV", TypeGSV},
	{"VTG", TypeVTG},
	{"HDT", TypeHDT},
	{"PASHR", TypePASHR},
	{"GGK", TypeGGK},
}

// MessageTypes returns the supported types in classification order.
func MessageTypes() []MessageType {
	out := make([]MessageType, 0, len(classifyOrder))
	for _, c := range classifyOrder {
		out = append(out, c.typ)
	}
	return out
}

func (t MessageType) String() string {
	for _, c := range classifyOrder {
		if c.typ == t {
			return c.code
		}
	}
	return "UNKNOWN"
}

// ParseMessageType maps a code such as "gga" or "PASHR" to its type.
func ParseMessageType(code string) (MessageType, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range classifyOrder {
		if c.code == code {
			return c.typ, nil
		}
	}
	return TypeUnknown, fmt.Errorf("%w: unsupported type %q", ErrUnrecognizedSentence, code)
}

// Sentence is the located $...*hh portion of a raw line.
type Sentence struct {
	// Raw is the sentence from '$' through the two checksum characters.
	Raw string
	// Body holds the bytes strictly between '$' and '*'.
	Body string
	// Checksum is the transmitted two-character checksum as it appeared.
	Checksum string
}

// Text returns the sentence from '$' up to, but excluding, the '*'.
func (s Sentence) Text() string {
	return "$" + s.Body
}

// Greedy: first '$' through the last '*hh' on the line.
var sentenceRE = regexp.MustCompile(`\$(.*)\*([0-9A-Fa-f]{2})`)

// Locate finds the sentence embedded in line.
func Locate(line string) (Sentence, error) {
	m := sentenceRE.FindStringSubmatchIndex(line)
	if m == nil {
		return Sentence{}, ErrNotFound
	}
	return Sentence{
		Raw:      line[m[0]:m[1]],
		Body:     line[m[2]:m[3]],
		Checksum: line[m[4]:m[5]],
	}, nil
}

// Checksum XOR-folds every byte of body. Body must already exclude the
// leading '$' and the '*' delimiter.
func Checksum(body string) byte {
	var ck byte
	for i := 0; i < len(body); i++ {
		ck ^= body[i]
	}
	return ck
}

// FormatChecksum renders a checksum as two upper-case hex digits.
func FormatChecksum(ck byte) string {
	return fmt.Sprintf("%02X", ck)
}

// Verify compares the computed checksum with the transmitted one.
func (s Sentence) Verify() error {
	got := FormatChecksum(Checksum(s.Body))
	if got != strings.ToUpper(s.Checksum) {
		return fmt.Errorf("%w: computed %s transmitted %s", ErrChecksumFailed, got, s.Checksum)
	}
	return nil
}

// Verify locates the sentence in line and checks its checksum. A line with
// no $...*hh sentence fails the check as well.
func Verify(line string) (Sentence, error) {
	s, err := Locate(line)
	if err != nil {
		return Sentence{}, fmt.Errorf("%w: %w", ErrChecksumFailed, err)
	}
	if err := s.Verify(); err != nil {
		return s, err
	}
	return s, nil
}

// Classify reports the first supported code contained in text.
func Classify(text string) (MessageType, error) {
	for _, c := range classifyOrder {
		if strings.Contains(text, c.code) {
			return c.typ, nil
		}
	}
	return TypeUnknown, ErrUnrecognizedSentence
}
