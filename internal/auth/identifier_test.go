package auth

import "testing"

func TestClassifyIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want IdentifierKind
	}{
		{"agent1@example.com", KindEmail},
		{"first.last+tag@mail.example.org", KindEmail},
		{"9876543210", KindPhone},
		{"919876543210", KindPhone},
		{"123456789", KindSecondaryID}, // only 9 digits, not a phone
		{"ABC1234567", KindSecondaryID},
		{"abc1234567", KindSecondaryID},
		{"not-an-email@", KindSecondaryID},
		{"", KindSecondaryID},
	}

	for _, tc := range cases {
		if got := ClassifyIdentifier(tc.in); got != tc.want {
			t.Errorf("ClassifyIdentifier(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClassifyIdentifier_EmailWinsOverPhone(t *testing.T) {
	// Pattern order is strict: an identifier that looks like an email is
	// classified as email even if it also contains 10+ digits.
	if got := ClassifyIdentifier("1234567890@example.com"); got != KindEmail {
		t.Errorf("got %d, want KindEmail", got)
	}
}
