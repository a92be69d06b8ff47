package document

import (
	"errors"
	"strings"
	"testing"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head>
	<title>  Acme Widgets — Catalog  </title>
	<meta name="description" content="Buy widgets online">
	<meta property="og:title" content="Acme Widgets">
	<meta name="viewport" content="width=device-width">
</head>
<body>
	<h1>Widget Catalog</h1>
	<h2>Featured</h2>
	<h2>   </h2>
	<p>Our widgets are the best widgets.</p>
	<a href="/about">About us</a>
	<a href="https://partner.example.org" rel="nofollow">Partner</a>
	<a>No href</a>
	<img src="/widget.png" alt="A widget" title="Widget">
	<img src="/plain.png">
	<script>var hidden = "should not appear";</script>
	<style>.x { color: red; }</style>
</body>
</html>`

// TestParse tests parsing success and failure modes.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid HTML parses", func(t *testing.T) {
		t.Parallel()

		doc, err := Parse(sampleHTML)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if doc == nil {
			t.Fatal("expected non-nil document")
		}
	})

	t.Run("empty input yields ParseError", func(t *testing.T) {
		t.Parallel()

		_, err := Parse("   \n\t ")
		if err == nil {
			t.Fatal("expected error for empty input")
		}

		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("expected *ParseError, got %T", err)
		}
	})

	t.Run("malformed markup still parses", func(t *testing.T) {
		t.Parallel()

		// html.Parse is lenient; broken tags yield a best-effort tree.
		doc, err := Parse("<p>unclosed <b>nested")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if doc.Count("p") != 1 {
			t.Errorf("expected one paragraph, got %d", doc.Count("p"))
		}
	})
}

// TestDocument_Title tests title extraction and trimming.
func TestDocument_Title(t *testing.T) {
	t.Parallel()

	doc, err := Parse(sampleHTML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := doc.Title(); got != "Acme Widgets — Catalog" {
		t.Errorf("Title() = %q", got)
	}
}

// TestDocument_MetaTags tests that name and property keys are collected.
func TestDocument_MetaTags(t *testing.T) {
	t.Parallel()

	doc, err := Parse(sampleHTML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tags := doc.MetaTags()
	if tags["description"] != "Buy widgets online" {
		t.Errorf("description = %q", tags["description"])
	}
	if tags["og:title"] != "Acme Widgets" {
		t.Errorf("og:title = %q", tags["og:title"])
	}
	if tags["viewport"] != "width=device-width" {
		t.Errorf("viewport = %q", tags["viewport"])
	}
}

// TestDocument_Headings tests heading grouping and empty-heading skipping.
func TestDocument_Headings(t *testing.T) {
	t.Parallel()

	doc, err := Parse(sampleHTML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	headings := doc.Headings()
	if len(headings["h1"]) != 1 || headings["h1"][0] != "Widget Catalog" {
		t.Errorf("h1 = %v", headings["h1"])
	}
	// The whitespace-only h2 is skipped.
	if len(headings["h2"]) != 1 {
		t.Errorf("h2 = %v, want one entry", headings["h2"])
	}
}

// TestDocument_Links tests that only anchors with href are returned.
func TestDocument_Links(t *testing.T) {
	t.Parallel()

	doc, err := Parse(sampleHTML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	links := doc.Links()
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].Href != "/about" || links[0].Text != "About us" {
		t.Errorf("unexpected first link: %+v", links[0])
	}
	if links[1].Rel != "nofollow" {
		t.Errorf("expected rel=nofollow, got %q", links[1].Rel)
	}
}

// TestDocument_Images tests image attribute extraction.
func TestDocument_Images(t *testing.T) {
	t.Parallel()

	doc, err := Parse(sampleHTML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	images := doc.Images()
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if images[0].Alt != "A widget" {
		t.Errorf("unexpected alt: %q", images[0].Alt)
	}
	if images[1].Alt != "" {
		t.Errorf("expected empty alt, got %q", images[1].Alt)
	}
}

// TestDocument_Text tests that script and style content is excluded.
func TestDocument_Text(t *testing.T) {
	t.Parallel()

	doc, err := Parse(sampleHTML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	text := doc.Text()
	if !strings.Contains(text, "Our widgets are the best widgets.") {
		t.Errorf("body text missing paragraph: %q", text)
	}
	if strings.Contains(text, "should not appear") {
		t.Error("script content leaked into text")
	}
	if strings.Contains(text, "color: red") {
		t.Error("style content leaked into text")
	}
}

// TestDocument_FieldSet tests the flat fact extraction in one pass.
func TestDocument_FieldSet(t *testing.T) {
	t.Parallel()

	doc, err := Parse(sampleHTML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	fs := doc.FieldSet()
	if fs.Title != "Acme Widgets — Catalog" {
		t.Errorf("fieldset title = %q", fs.Title)
	}
	if len(fs.Links) != 2 {
		t.Errorf("fieldset links = %d, want 2", len(fs.Links))
	}
	if len(fs.Images) != 2 {
		t.Errorf("fieldset images = %d, want 2", len(fs.Images))
	}
	if fs.BodyText == "" {
		t.Error("expected non-empty body text")
	}
	if fs.MetaTags["description"] == "" {
		t.Error("expected description meta in fieldset")
	}
}

// TestDocument_Count tests selector counting.
func TestDocument_Count(t *testing.T) {
	t.Parallel()

	doc, err := Parse(sampleHTML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := doc.Count("img"); got != 2 {
		t.Errorf("Count(img) = %d, want 2", got)
	}
	if got := doc.Count("table"); got != 0 {
		t.Errorf("Count(table) = %d, want 0", got)
	}
}

// TestDocument_SelectTexts tests caller-supplied selector evaluation,
// including the match cap and invalid selector handling.
func TestDocument_SelectTexts(t *testing.T) {
	t.Parallel()

	doc, err := Parse(sampleHTML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := doc.SelectTexts("h2", 0); len(got) != 1 || got[0] != "Featured" {
		t.Errorf("SelectTexts(h2) = %v, want [Featured]", got)
	}
	if got := doc.SelectTexts("a", 2); len(got) != 2 {
		t.Errorf("SelectTexts(a, 2) = %v, want capped at 2", got)
	}
	if got := doc.SelectTexts(".absent", 5); len(got) != 0 {
		t.Errorf("SelectTexts(.absent) = %v, want none", got)
	}
	if got := doc.SelectTexts("[invalid", 5); len(got) != 0 {
		t.Errorf("SelectTexts on an invalid selector = %v, want none", got)
	}
}
