package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  plain   text ", "plain text"},
		{"<b>flat</b> tyre", "flat tyre"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;stuck", "alert(1)stuck"},
		{"line\n\nbreaks", "line breaks"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Fatalf("Text(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}

	if TextPtr(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
}
