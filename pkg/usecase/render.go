package usecase

import (
	"bytes"
	"math/rand/v2"
	"text/template"

	"github.com/m-mizutani/goerr/v2"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

// VariantSelector picks one of n phrasing variants for a rule key. Results
// outside [0, n) are wrapped.
type VariantSelector func(key string, n int) int

// RandomVariant is the production selector
func RandomVariant(_ string, n int) int {
	return rand.IntN(n)
}

// FirstVariant always picks the first variant
func FirstVariant(_ string, _ int) int {
	return 0
}

type compiledPhrasing struct {
	title    *template.Template
	variants []*template.Template
}

// Renderer turns drafts into title and message text
type Renderer struct {
	phrasings map[types.RuleKey]compiledPhrasing
	selector  VariantSelector
}

// NewRenderer compiles the catalog. overrides replace the message variants of
// the given rule keys; titles are not overridable.
func NewRenderer(overrides map[types.RuleKey][]string, selector VariantSelector) (*Renderer, error) {
	if selector == nil {
		selector = RandomVariant
	}

	r := &Renderer{
		phrasings: make(map[types.RuleKey]compiledPhrasing, len(catalog)),
		selector:  selector,
	}

	for key, p := range catalog {
		variants := p.variants
		if o, ok := overrides[key]; ok && len(o) > 0 {
			variants = o
		}

		compiled, err := compilePhrasing(key, p.title, variants)
		if err != nil {
			return nil, err
		}
		r.phrasings[key] = compiled
	}

	for key, o := range overrides {
		if _, ok := catalog[key]; !ok {
			return nil, goerr.New("template override for unknown rule", goerr.V(RuleKeyKey, key), goerr.V("variants", len(o)))
		}
	}

	return r, nil
}

func compilePhrasing(key types.RuleKey, title string, variants []string) (compiledPhrasing, error) {
	var c compiledPhrasing

	t, err := template.New(key.String() + ".title").Option("missingkey=zero").Parse(title)
	if err != nil {
		return c, goerr.Wrap(err, "failed to parse title template", goerr.V(RuleKeyKey, key))
	}
	c.title = t

	for i, v := range variants {
		t, err := template.New(key.String()).Option("missingkey=zero").Parse(v)
		if err != nil {
			return c, goerr.Wrap(err, "failed to parse message template",
				goerr.V(RuleKeyKey, key), goerr.V("variant", i))
		}
		c.variants = append(c.variants, t)
	}
	return c, nil
}

// Render produces title and message for d. Unknown rule keys fall back to
// the key as title. Category and urgency are never touched.
func (r *Renderer) Render(d *model.NotificationDraft) (string, string) {
	p, ok := r.phrasings[d.RuleKey]
	if !ok || len(p.variants) == 0 {
		return d.RuleKey.String(), ""
	}

	idx := r.selector(d.RuleKey.String(), len(p.variants))
	idx %= len(p.variants)
	if idx < 0 {
		idx += len(p.variants)
	}

	return execute(p.title, d.Variables), execute(p.variants[idx], d.Variables)
}

func execute(t *template.Template, vars map[string]string) string {
	if vars == nil {
		vars = map[string]string{}
	}
	var buf bytes.Buffer
	// execution errors only come from malformed overrides; keep what rendered
	_ = t.Execute(&buf, vars)
	return buf.String()
}
