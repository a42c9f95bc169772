package profiles

import "testing"

func TestHasContact(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    bool
	}{
		{"nothing", Profile{}, false},
		{"explicit contact", Profile{Contact: "+15551234567"}, true},
		{"username only", Profile{ChannelUsername: "alice_b"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.HasContact(); got != tt.want {
				t.Errorf("HasContact() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContactValuePrefersExplicit(t *testing.T) {
	p := Profile{Contact: "bob@acme.io", ChannelUsername: "bob"}
	if got := p.ContactValue(); got != "bob@acme.io" {
		t.Errorf("ContactValue() = %q", got)
	}
	p.Contact = ""
	if got := p.ContactValue(); got != "@bob" {
		t.Errorf("ContactValue() = %q", got)
	}
}

func TestLeadRequestDefaults(t *testing.T) {
	p := Profile{ConversationID: "tg:42"}
	req := p.LeadRequest("telegram")

	if req.Source != "telegram_ai" {
		t.Errorf("Source = %q, want telegram_ai", req.Source)
	}
	if req.Name != "Client" {
		t.Errorf("Name = %q, want Client", req.Name)
	}
	if req.Company != "Private client" {
		t.Errorf("Company = %q, want Private client", req.Company)
	}
	if req.Service != "Consultation" {
		t.Errorf("Service = %q, want Consultation", req.Service)
	}
	if req.Budget != "Negotiable" {
		t.Errorf("Budget = %q, want Negotiable", req.Budget)
	}
	if req.Contact != "chat:tg:42" {
		t.Errorf("Contact = %q, want chat:tg:42", req.Contact)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("default request should validate, got %v", err)
	}
}

func TestLeadRequestKeepsKnownFields(t *testing.T) {
	p := Profile{
		ConversationID:  "tg:43",
		Name:            "Alice",
		Service:         "Website development",
		ChannelUsername: "alice_b",
	}
	req := p.LeadRequest("telegram")
	if req.Name != "Alice" || req.Service != "Website development" {
		t.Errorf("req = %+v", req)
	}
	if req.Contact != "@alice_b" {
		t.Errorf("Contact = %q, want @alice_b", req.Contact)
	}
}
