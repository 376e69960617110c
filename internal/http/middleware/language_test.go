package middleware

import (
	"testing"

	"golang.org/x/text/language"
)

func TestNegotiate(t *testing.T) {
	supported := []language.Tag{language.English, language.Bulgarian}
	matcher := language.NewMatcher(supported)

	tests := []struct {
		name     string
		explicit string
		accept   string
		want     string
	}{
		{name: "explicit wins", explicit: "bg", accept: "en-US", want: "bg"},
		{name: "accept header", accept: "bg-BG,bg;q=0.9,en;q=0.5", want: "bg"},
		{name: "regional english", accept: "en-GB", want: "en"},
		{name: "unsupported falls back", accept: "de-DE", want: "en"},
		{name: "garbage explicit ignored", explicit: "!!", accept: "bg", want: "bg"},
		{name: "nothing given", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Negotiate(matcher, supported, tt.explicit, tt.accept); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
