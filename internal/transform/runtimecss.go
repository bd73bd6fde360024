// Package transform applies resolved runtime parameters to AMP documents.
package transform

import (
	"errors"

	"github.com/PuerkitoBio/goquery"
	"github.com/black007php/amp-toolbox/internal/runtime"
)

// RuntimeCSS replaces the runtime style boilerplate of an AMP document
// with the resolved runtime CSS and stamps the runtime version on it.
// A document without resolved styles is left untouched.
type RuntimeCSS struct{}

// Apply rewrites doc in place.
func (RuntimeCSS) Apply(doc *goquery.Document, params runtime.RuntimeParameters) error {
	if params.AmpRuntimeStyles == "" {
		return nil
	}

	head := doc.Find("head")
	if head.Length() == 0 {
		return errors.New("document has no head element")
	}

	style := head.Find("style[amp-runtime]")
	if style.Length() == 0 {
		head.PrependHtml(`<style amp-runtime></style>`)
		style = head.Find("style[amp-runtime]")
	}

	if params.AmpRuntimeVersion != "" {
		style.SetAttr("i-amphtml-version", params.AmpRuntimeVersion)
	}
	style.SetText(params.AmpRuntimeStyles)
	return nil
}
