package report

import (
	"github.com/aymerick/raymond"
)

// RenderDocument compiles the template's Handlebars markup and binds the
// script outputs as its variable context. Interpolated values are
// HTML-escaped unless the markup uses triple-stash or the script produced a
// raymond.SafeString. The title is read straight from the outputs and never
// goes through the template compiler.
func RenderDocument(markup string, outputs ScriptOutputs) (*Document, error) {
	tpl, err := raymond.Parse(markup)
	if err != nil {
		return nil, wrapRunError(KindRender, "could not compile the report markup", err)
	}

	body, err := tpl.Exec(map[string]interface{}(outputs))
	if err != nil {
		return nil, wrapRunError(KindRender, "could not render the report markup", err)
	}

	return &Document{
		Title: outputs.Title(),
		Body:  body,
	}, nil
}
