// Package templates holds the text templates that synthesize wrapper
// bodies and render expanded impl blocks back to source.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/toyz/blockgen/internal/backend"
	"github.com/toyz/blockgen/internal/models"
)

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}
	registry.registerBodyTemplates()
	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	source, exists := tr.templates[name]
	return source, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	source, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return source
}

// registerBodyTemplates registers one wrapper-body template per backend
// profile. The tokio body constructs a fresh single-use runtime for every
// call and aborts the calling thread if construction fails; the async-std
// body submits straight to the global blocking entry point.
func (tr *TemplateRegistry) registerBodyTemplates() {
	tr.templates["tokio-body"] = `{
    use tokio::runtime::Runtime;
    let mut rt = Runtime::new().unwrap();
    rt.block_on({{.CallExpr}})
}`

	tr.templates["async-std-body"] = `{
    use async_std::task;
    task::block_on({{.CallExpr}})
}`
}

// bodyData is the input to a wrapper-body template
type bodyData struct {
	CallExpr string
}

var defaultRegistry = NewTemplateRegistry()

// CallExpression builds the call into the original async method: instance
// syntax through the receiver, or type-qualified syntax for associated
// functions, with the planned arguments in declaration order.
func CallExpression(plan models.CallPlan) string {
	args := strings.Join(plan.ForwardedArgs, ", ")
	if plan.HasReceiver {
		return fmt.Sprintf("%s.%s(%s)", plan.Qualifier, plan.OriginalName, args)
	}
	return fmt.Sprintf("%s::%s(%s)", plan.Qualifier, plan.OriginalName, args)
}

// SynthesizeBody renders the backend-specific blocking body around the
// planned call expression.
func SynthesizeBody(plan models.CallPlan, profile backend.Profile) (string, error) {
	name := profile.String() + "-body"
	source, exists := defaultRegistry.Get(name)
	if !exists {
		return "", &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			Message: fmt.Sprintf("no body template registered for backend %s", profile),
		}
	}

	tmpl, err := template.New(name).Parse(source)
	if err != nil {
		return "", &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			Message: fmt.Sprintf("failed to parse body template %s", name),
			Cause:   err,
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, bodyData{CallExpr: CallExpression(plan)}); err != nil {
		return "", &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			Message: fmt.Sprintf("failed to render body template %s", name),
			Cause:   err,
		}
	}
	return buf.String(), nil
}
