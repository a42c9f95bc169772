package override

import (
	"strings"
	"testing"
)

func TestParseContactsDefaults(t *testing.T) {
	contacts := ParseContacts("")
	if contacts[ContactEmail] != DefaultContacts[ContactEmail] {
		t.Errorf("email = %q, want default", contacts[ContactEmail])
	}
	contacts = ParseContacts("plain scenario text with no block")
	if contacts[ContactTelegram] != DefaultContacts[ContactTelegram] {
		t.Errorf("telegram = %q, want default", contacts[ContactTelegram])
	}
}

func TestParseContactsFromBlock(t *testing.T) {
	prompt := "Always greet politely.\n\n" +
		"[CONTACTS_OVERRIDE_START]\n" +
		"Use only the up-to-date contacts below:\n" +
		"email=sales@northstack.io\n" +
		"telegram=@ns_sales\n" +
		"[CONTACTS_OVERRIDE_END]"

	contacts := ParseContacts(prompt)
	if contacts[ContactEmail] != "sales@northstack.io" {
		t.Errorf("email = %q", contacts[ContactEmail])
	}
	if contacts[ContactTelegram] != "@ns_sales" {
		t.Errorf("telegram = %q", contacts[ContactTelegram])
	}
	// Channels absent from the block keep their defaults.
	if contacts[ContactWhatsApp] != DefaultContacts[ContactWhatsApp] {
		t.Errorf("whatsapp = %q, want default", contacts[ContactWhatsApp])
	}
}

func TestWithContactsRoundTrip(t *testing.T) {
	contacts := ParseContacts("")
	contacts[ContactEmail] = "new@northstack.io"

	prompt := WithContacts("Scenario: always offer a free audit.", contacts)
	if !strings.HasPrefix(prompt, "Scenario: always offer a free audit.") {
		t.Errorf("prompt lost its base text: %q", prompt)
	}
	if strings.Count(prompt, "[CONTACTS_OVERRIDE_START]") != 1 {
		t.Errorf("prompt should carry exactly one block: %q", prompt)
	}

	// Rewriting again replaces, not duplicates, the block.
	contacts[ContactEmail] = "third@northstack.io"
	prompt = WithContacts(prompt, contacts)
	if strings.Count(prompt, "[CONTACTS_OVERRIDE_START]") != 1 {
		t.Errorf("block duplicated: %q", prompt)
	}
	if got := ParseContacts(prompt)[ContactEmail]; got != "third@northstack.io" {
		t.Errorf("email after rewrite = %q", got)
	}
}

func TestNormalizeContactValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{ContactTelegram, "ns_sales", "@ns_sales"},
		{ContactTelegram, "@ns_sales", "@ns_sales"},
		{ContactInstagram, "northstack", "@northstack"},
		{ContactWhatsApp, "+1 (555) 000-1111", "+15550001111"},
		{ContactEmail, " sales@northstack.io ", "sales@northstack.io"},
	}
	for _, tt := range tests {
		if got := NormalizeContactValue(tt.key, tt.value); got != tt.want {
			t.Errorf("NormalizeContactValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}
