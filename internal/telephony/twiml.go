package telephony

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// TwiML is a minimal Twilio Markup Language response builder.
// It intentionally avoids any provider SDK dependency.
//
// Only include primitives we need at the adapter boundary.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Text    string   `xml:",chardata"`
}

type twimlDial struct {
	XMLName  xml.Name `xml:"Dial"`
	CallerID string   `xml:"callerId,attr,omitempty"`
	Number   string   `xml:"Number"`
}

const missingDestinationMessage = "Missing destination number."

// BuildVoiceTwiML maps an inbound leg to its routing document.
//
// With no destination the document is a single Say verb; the call engine ends
// the leg after speaking. Otherwise a single Dial targets the destination,
// carrying the callerId attribute only when an override is configured — an
// empty attribute must never reach the wire.
func BuildVoiceTwiML(to, callerID string) (string, error) {
	var r twimlResponse

	if strings.TrimSpace(to) == "" {
		r.Verbs = append(r.Verbs, twimlSay{Text: missingDestinationMessage})
	} else {
		r.Verbs = append(r.Verbs, twimlDial{CallerID: callerID, Number: to})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
