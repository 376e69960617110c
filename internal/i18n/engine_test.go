package i18n

import (
	"testing"
)

func newTestEngine(t *testing.T, debug bool) *Engine {
	t.Helper()
	static, err := DefaultResources()
	if err != nil {
		t.Fatalf("load resources: %v", err)
	}
	return NewEngine(static, Options{DefaultLanguage: English, FallbackLanguage: English, Debug: debug})
}

func TestDefaultResourcesHaveMatchingKeys(t *testing.T) {
	static, err := DefaultResources()
	if err != nil {
		t.Fatalf("load resources: %v", err)
	}
	if got := static.Languages(); len(got) != 2 || got[0] != Bulgarian || got[1] != English {
		t.Fatalf("expected bg and en, got %v", got)
	}
	for key := range static[English] {
		if _, ok := static[Bulgarian][key]; !ok {
			t.Errorf("key %s has no Bulgarian text", key)
		}
	}
}

func TestTranslateLooksUpNestedKeys(t *testing.T) {
	e := newTestEngine(t, false)

	if got := e.Translate(English, "services.flatTyre.title", nil, ""); got != "Flat Tyre" {
		t.Fatalf("expected Flat Tyre, got %q", got)
	}
	if got := e.Translate(Bulgarian, "ui.actions.cancel", nil, ""); got != "Отказ" {
		t.Fatalf("expected Отказ, got %q", got)
	}
	if got := e.Translate("de", "ui.actions.cancel", nil, ""); got != "Cancel" {
		t.Fatalf("expected default language for unknown code, got %q", got)
	}
}

func TestTranslateInterpolatesAndKeepsUnknownPlaceholders(t *testing.T) {
	e := newTestEngine(t, false)

	got := e.Translate(English, "requests.events.quoteSent", Params{"employee": "Ivan", "price": "35.00 BGN"}, "")
	if got != "Ivan sent you a quote of 35.00 BGN" {
		t.Fatalf("unexpected text %q", got)
	}

	got = e.Translate(English, "requests.events.quoteSent", Params{"employee": "Ivan"}, "")
	if got != "Ivan sent you a quote of {{price}}" {
		t.Fatalf("expected unknown placeholder to stay, got %q", got)
	}
}

func TestTranslateUsesContextVariant(t *testing.T) {
	e := newTestEngine(t, false)

	if got := e.Translate(English, "requests.quote.decline", nil, ""); got != "Decline" {
		t.Fatalf("expected base text, got %q", got)
	}
	if got := e.Translate(English, "requests.quote.decline", nil, "final"); got != "Decline and find another employee" {
		t.Fatalf("expected context text, got %q", got)
	}
	if got := e.Translate(English, "requests.quote.decline", nil, "unknown"); got != "Decline" {
		t.Fatalf("expected base text for unknown context, got %q", got)
	}
}

func TestTranslateFallsBackAndMigratesLegacyKeys(t *testing.T) {
	static := Resources{
		English:   {"only.english": {Text: "English only"}, "services.towTruck.title": {Text: "Tow Truck"}},
		Bulgarian: {"services.towTruck.title": {Text: "Пътна помощ"}},
	}
	e := NewEngine(static, Options{FallbackLanguage: English})

	if got := e.Translate(Bulgarian, "only.english", nil, ""); got != "English only" {
		t.Fatalf("expected fallback text, got %q", got)
	}
	if got := e.Translate(Bulgarian, "tow-truck", nil, ""); got != "Пътна помощ" {
		t.Fatalf("expected migrated key, got %q", got)
	}
}

func TestMissingKeys(t *testing.T) {
	if got := newTestEngine(t, true).Translate(English, "nope.key", nil, ""); got != "[MISSING: nope.key]" {
		t.Fatalf("expected debug marker, got %q", got)
	}

	e := newTestEngine(t, false)
	tests := map[string]string{
		"profile.phoneNumber": "Phone Number",
		"out_of-range":        "Out of range",
		"plain":               "Plain",
	}
	for key, want := range tests {
		if got := e.Translate(English, key, nil, ""); got != want {
			t.Fatalf("%s: expected %q, got %q", key, want, got)
		}
	}
}

func TestTranslatePlural(t *testing.T) {
	e := newTestEngine(t, false)

	tests := []struct {
		lang  string
		count int
		want  string
	}{
		{English, 0, "No employees available"},
		{English, 1, "1 employee available"},
		{English, 3, "3 employees available"},
		{Bulgarian, 0, "Няма налични служители"},
		{Bulgarian, 1, "1 наличен служител"},
		{Bulgarian, 3, "3 налични служители"},
		{Bulgarian, 7, "7 налични служители"},
	}
	for _, tt := range tests {
		if got := e.TranslatePlural(tt.lang, "requests.employeesAvailable", tt.count, nil); got != tt.want {
			t.Fatalf("%s/%d: expected %q, got %q", tt.lang, tt.count, tt.want, got)
		}
	}

	// Without a zero form, zero uses other.
	if got := e.TranslatePlural(English, "requests.minutesAway", 0, nil); got != "0 minutes away" {
		t.Fatalf("expected other form for zero, got %q", got)
	}
	// Keys without plural forms still receive count.
	if got := e.TranslatePlural(English, "requests.events.submitted", 2, Params{"service": "tow"}); got != "Your tow request was received" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestPluralFewOnlyAppliesToBulgarian(t *testing.T) {
	forms := map[string]string{"one": "one", "few": "few", "other": "other"}

	if got, _ := pluralForm(Bulgarian, 3, forms); got != "few" {
		t.Fatalf("expected few for bg, got %q", got)
	}
	if got, _ := pluralForm(English, 3, forms); got != "other" {
		t.Fatalf("expected other for en, got %q", got)
	}
	if got, _ := pluralForm(Bulgarian, 5, forms); got != "other" {
		t.Fatalf("expected other for 5, got %q", got)
	}
}

func TestOverridesWinAndBundleMerges(t *testing.T) {
	e := newTestEngine(t, false)
	e.PutOverride(Override{Key: "ui.actions.cancel", English: "Abort", Bulgarian: ""})
	e.PutOverride(Override{Key: "custom.banner", English: "Hello", Bulgarian: "Здравей"})

	if got := e.Translate(English, "ui.actions.cancel", nil, ""); got != "Abort" {
		t.Fatalf("expected override, got %q", got)
	}
	if got := e.Translate(Bulgarian, "ui.actions.cancel", nil, ""); got != "Отказ" {
		t.Fatalf("expected static text when override is empty, got %q", got)
	}
	if !e.HasKey("custom.banner") {
		t.Fatal("expected override key to exist")
	}

	bundle := e.Bundle(Bulgarian)
	if bundle["custom.banner"] != "Здравей" || bundle["services.towTruck.title"] != "Пътна помощ" {
		t.Fatalf("unexpected bundle values")
	}

	e.RemoveOverride("ui.actions.cancel")
	if got := e.Translate(English, "ui.actions.cancel", nil, ""); got != "Cancel" {
		t.Fatalf("expected static text after removal, got %q", got)
	}
}

func TestParseResourcesRejectsBadLeaves(t *testing.T) {
	bad := []string{
		"en: [1, 2]",
		"en:\n  a: 3",
		"en:\n  a:\n    text: x\n    plural: nope",
	}
	for _, doc := range bad {
		if _, err := ParseResources([]byte(doc)); err == nil {
			t.Fatalf("expected error for %q", doc)
		}
	}
}
