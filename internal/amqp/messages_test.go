package amqp

import (
	"testing"
	"time"
)

func TestTransactionEventRoundTrip(t *testing.T) {
	event := NewTransactionEvent(EventTransactionCreated, 42)

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := TransactionEventFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.Kind != EventTransactionCreated || decoded.TransactionID != 42 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Timestamp.IsZero() || time.Since(decoded.Timestamp) > time.Minute {
		t.Errorf("timestamp = %s, want recent", decoded.Timestamp)
	}
}

func TestTransactionEventFromJSONMalformed(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed body")
	}
}
