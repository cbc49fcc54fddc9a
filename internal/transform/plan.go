package transform

import (
	"fmt"
	"regexp"

	"github.com/toyz/blockgen/internal/models"
)

var asyncModifier = regexp.MustCompile(`\basync\s+`)

// PlanCall derives the call metadata for one async method: the wrapper
// name, the call qualifier, and the argument list forwarded verbatim.
// Binding patterns are reused unchanged as call arguments, so the call
// matches the original declared types without any type information.
func PlanCall(signature models.MethodSignature, owningType string) models.CallPlan {
	plan := models.CallPlan{
		NewName:      signature.Name + BlockingSuffix,
		HasReceiver:  signature.HasReceiver(),
		OriginalName: signature.Name,
		Qualifier:    owningType,
	}
	if plan.HasReceiver {
		plan.Qualifier = "self"
	}
	for _, param := range signature.Parameters {
		if param.Receiver {
			continue
		}
		plan.ForwardedArgs = append(plan.ForwardedArgs, param.Pattern)
	}
	return plan
}

// WrapperSignature mirrors an async method's declaration with the async
// modifier removed and the wrapper name substituted. The rewrite is
// textual so generics, lifetimes and where clauses survive unchanged.
func WrapperSignature(method *models.Method, newName string) (string, error) {
	sig := method.SignatureText
	loc := asyncModifier.FindStringIndex(sig)
	if loc == nil {
		return "", fmt.Errorf("method %q has no async modifier to clear", method.Signature.Name)
	}
	sig = sig[:loc[0]] + sig[loc[1]:]

	namePattern := regexp.MustCompile(`\bfn\s+` + regexp.QuoteMeta(method.Signature.Name) + `\b`)
	loc = namePattern.FindStringIndex(sig)
	if loc == nil {
		return "", fmt.Errorf("could not locate `fn %s` in signature %q", method.Signature.Name, sig)
	}
	return sig[:loc[0]] + "fn " + newName + sig[loc[1]:], nil
}
