package override

import (
	"regexp"
	"strings"
)

// Contact channel keys recognized inside the override block.
const (
	ContactTelegram  = "telegram"
	ContactInstagram = "instagram"
	ContactEmail     = "email"
	ContactWhatsApp  = "whatsapp"
)

var (
	contactsBlockRE = regexp.MustCompile(`(?is)\[CONTACTS_OVERRIDE_START\].*?\[CONTACTS_OVERRIDE_END\]`)
	contactsLineRE  = regexp.MustCompile(`(?i)^(telegram|instagram|email|whatsapp)\s*=\s*(.+)$`)
	nonPhoneRE      = regexp.MustCompile(`[^\d+]`)
)

// DefaultContacts are used until an administrator overrides a channel.
var DefaultContacts = map[string]string{
	ContactTelegram:  "@northstack_hq",
	ContactInstagram: "@northstack_hq",
	ContactEmail:     "hello@northstack.io",
	ContactWhatsApp:  "https://wa.me/15550000000",
}

// ParseContacts extracts the contact overrides embedded in the prompt text,
// falling back to defaults for any channel not overridden.
func ParseContacts(promptText string) map[string]string {
	contacts := make(map[string]string, len(DefaultContacts))
	for k, v := range DefaultContacts {
		contacts[k] = v
	}

	raw := strings.TrimSpace(promptText)
	if raw == "" {
		return contacts
	}
	block := contactsBlockRE.FindString(raw)
	if block == "" {
		return contacts
	}

	for _, line := range strings.Split(block, "\n") {
		m := contactsLineRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		key := strings.ToLower(m[1])
		value := strings.TrimSpace(m[2])
		if _, known := contacts[key]; known && value != "" {
			contacts[key] = value
		}
	}
	return contacts
}

// WithContacts rewrites the prompt text so it carries exactly one contact
// block holding the given values, preserving the rest of the fragment.
func WithContacts(promptText string, contacts map[string]string) string {
	base := strings.TrimSpace(contactsBlockRE.ReplaceAllString(strings.TrimSpace(promptText), ""))

	block := strings.Join([]string{
		"[CONTACTS_OVERRIDE_START]",
		"Use only the up-to-date contacts below:",
		ContactTelegram + "=" + contacts[ContactTelegram],
		ContactInstagram + "=" + contacts[ContactInstagram],
		ContactEmail + "=" + contacts[ContactEmail],
		ContactWhatsApp + "=" + contacts[ContactWhatsApp],
		"[CONTACTS_OVERRIDE_END]",
	}, "\n")

	if base == "" {
		return block
	}
	return base + "\n\n" + block
}

// NormalizeContactValue canonicalizes a channel value: handles get an @
// prefix, WhatsApp keeps only digits and plus.
func NormalizeContactValue(key, value string) string {
	cleaned := strings.TrimSpace(value)
	switch key {
	case ContactTelegram, ContactInstagram:
		if cleaned != "" && !strings.HasPrefix(cleaned, "@") {
			return "@" + cleaned
		}
	case ContactWhatsApp:
		if compact := nonPhoneRE.ReplaceAllString(cleaned, ""); compact != "" {
			return compact
		}
	}
	return cleaned
}
