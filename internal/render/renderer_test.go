package render

import (
	"strings"
	"testing"
)

func TestRenderProducesStandaloneHTML(t *testing.T) {
	r := NewHTMLRenderer()

	out, err := r.Render("Complaint LDA-2026-000001", "# FORMAL COMPLAINT\n\nI, Kumar, wish to report an incident.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	s := string(out)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Complaint LDA-2026-000001</title>",
		"<h1>FORMAL COMPLAINT</h1>",
		"Kumar",
		"</body></html>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderEscapesTitle(t *testing.T) {
	r := NewHTMLRenderer()

	out, err := r.Render("<script>", "body")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Error("title not escaped")
	}
}
