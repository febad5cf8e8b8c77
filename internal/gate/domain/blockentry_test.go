package domain

import "testing"

func TestNewBlockEntry(t *testing.T) {
	tests := []struct {
		name    string
		cid     string
		reason  string
		wantErr bool
	}{
		{"valid", "QmABC123", "malware", false},
		{"trims_whitespace", "  QmABC123  ", " dmca ", false},
		{"empty_cid", "", "malware", true},
		{"empty_reason", "QmABC123", "", true},
		{"whitespace_only_reason", "QmABC123", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewBlockEntry(tt.cid, tt.reason)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewBlockEntry(%q, %q) expected error, got nil", tt.cid, tt.reason)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBlockEntry(%q, %q) unexpected error: %v", tt.cid, tt.reason, err)
			}
			if e.CID != "QmABC123" {
				t.Errorf("CID = %q, want %q", e.CID, "QmABC123")
			}
			if e.Reason == "" {
				t.Error("Reason is empty after construction")
			}
		})
	}
}

func TestEmptyDecision(t *testing.T) {
	d := EmptyDecision("QmABC123")
	if d.Blocked {
		t.Error("EmptyDecision should not be blocked")
	}
	if d.IsBlocked() {
		t.Error("IsBlocked() should be false")
	}
	if d.CID != "QmABC123" {
		t.Errorf("CID = %q, want QmABC123", d.CID)
	}
}
