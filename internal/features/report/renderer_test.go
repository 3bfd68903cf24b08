package report

import (
	"strings"
	"testing"

	"github.com/aymerick/raymond"
)

func TestRenderEscapesByDefault(t *testing.T) {
	outputs := ScriptOutputs{
		"title":   "Summary",
		"payload": `<script>alert(1)</script>`,
	}

	doc, err := RenderDocument(`<div>{{payload}}</div>`, outputs)
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	if strings.Contains(doc.Body, "<script>") {
		t.Errorf("body %q contains unescaped markup", doc.Body)
	}
	if !strings.Contains(doc.Body, "&lt;script&gt;") {
		t.Errorf("body %q should contain the escaped value", doc.Body)
	}
}

func TestRenderTripleStashOptsOut(t *testing.T) {
	outputs := ScriptOutputs{"payload": "<b>bold</b>"}

	doc, err := RenderDocument(`{{{payload}}}`, outputs)
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	if doc.Body != "<b>bold</b>" {
		t.Errorf("body = %q, triple-stash must not escape", doc.Body)
	}
}

func TestRenderSafeStringOptsOut(t *testing.T) {
	outputs := ScriptOutputs{"payload": raymond.SafeString("<b>bold</b>")}

	doc, err := RenderDocument(`{{payload}}`, outputs)
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	if doc.Body != "<b>bold</b>" {
		t.Errorf("body = %q, SafeString must not be escaped", doc.Body)
	}
}

func TestRenderMissingFieldIsEmpty(t *testing.T) {
	doc, err := RenderDocument(`before {{nothing}} after`, ScriptOutputs{"title": "t"})
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	if doc.Body != "before  after" {
		t.Errorf("body = %q, missing fields must render empty", doc.Body)
	}
}

func TestRenderBadMarkup(t *testing.T) {
	_, err := RenderDocument(`{{#each rows}}`, ScriptOutputs{})
	re, ok := AsRunError(err)
	if !ok || re.Kind != KindRender {
		t.Fatalf("expected %s error, got %v", KindRender, err)
	}
}

func TestRenderTitleBypassesCompiler(t *testing.T) {
	outputs := ScriptOutputs{"title": "{{not-a-template}}"}

	doc, err := RenderDocument(`body`, outputs)
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	if doc.Title != "{{not-a-template}}" {
		t.Errorf("title = %q, it must be read verbatim from the outputs", doc.Title)
	}
}
