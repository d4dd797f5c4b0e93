package telephony

import (
	"strings"
	"testing"
)

func TestBuildVoiceTwiML_MissingDestinationSaysOnly(t *testing.T) {
	xml, err := BuildVoiceTwiML("", "+15550001111")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, "<Say>Missing destination number.</Say>") {
		t.Fatalf("expected Say verb, got %s", xml)
	}
	if strings.Contains(xml, "<Dial") {
		t.Fatalf("expected no Dial verb, got %s", xml)
	}
}

func TestBuildVoiceTwiML_BlankDestinationTreatedAsMissing(t *testing.T) {
	xml, err := BuildVoiceTwiML("   ", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, "<Say>") {
		t.Fatalf("expected Say verb, got %s", xml)
	}
}

func TestBuildVoiceTwiML_DialsDestination(t *testing.T) {
	xml, err := BuildVoiceTwiML("+14155552671", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, "<Number>+14155552671</Number>") {
		t.Fatalf("expected Number element, got %s", xml)
	}
	if strings.Contains(xml, "callerId") {
		t.Fatalf("callerId attribute must be absent when unset, got %s", xml)
	}
	if strings.Contains(xml, "<Say") {
		t.Fatalf("expected no Say verb, got %s", xml)
	}
}

func TestBuildVoiceTwiML_CallerIDAttachedWhenConfigured(t *testing.T) {
	xml, err := BuildVoiceTwiML("+14155552671", "+15550001111")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(xml, `callerId="+15550001111"`) {
		t.Fatalf("expected callerId attribute, got %s", xml)
	}
}
