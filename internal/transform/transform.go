package transform

import (
	"fmt"

	"github.com/toyz/blockgen/internal/backend"
	"github.com/toyz/blockgen/internal/models"
	"github.com/toyz/blockgen/internal/templates"
)

// Transform produces a new method collection holding every original
// member unchanged, in declaration order, followed by one synchronous
// wrapper per async method, in the same relative order as their async
// counterparts. The output never aliases the input member list.
//
// A method whose wrapper name is already taken by another method is
// rejected: the expansion would otherwise emit source that cannot
// compile.
func Transform(collection *models.MethodCollection, profile backend.Profile) (*models.MethodCollection, error) {
	classified := Classify(collection)

	taken := make(map[string]struct{})
	for _, entry := range classified {
		if entry.Member.Kind == models.MemberKindMethod {
			taken[entry.Member.Method.Signature.Name] = struct{}{}
		}
	}

	output := collection.Clone()
	for _, entry := range classified {
		if !entry.IsAsync {
			continue
		}
		method := entry.Member.Method
		plan := PlanCall(method.Signature, collection.TypeName)

		if _, exists := taken[plan.NewName]; exists {
			return nil, &models.GeneratorError{
				Type: models.ErrorTypeGeneration,
				Message: fmt.Sprintf("cannot generate wrapper for %s::%s: a member named %q already exists",
					collection.TypeName, plan.OriginalName, plan.NewName),
			}
		}
		taken[plan.NewName] = struct{}{}

		wrapper, err := synthesizeWrapper(method, plan, profile)
		if err != nil {
			return nil, err
		}
		output.Members = append(output.Members, wrapper)
	}
	return output, nil
}

// synthesizeWrapper builds the complete wrapper member for one planned
// call: mirrored signature, backend-specific blocking body.
func synthesizeWrapper(method *models.Method, plan models.CallPlan, profile backend.Profile) (models.Member, error) {
	signature, err := WrapperSignature(method, plan.NewName)
	if err != nil {
		return models.Member{}, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			Message: err.Error(),
		}
	}
	body, err := templates.SynthesizeBody(plan, profile)
	if err != nil {
		return models.Member{}, err
	}

	wrapperSig := method.Signature
	wrapperSig.Name = plan.NewName
	wrapperSig.IsAsync = false
	wrapperSig.Parameters = append([]models.Parameter(nil), method.Signature.Parameters...)

	return models.Member{
		Kind: models.MemberKindMethod,
		Method: &models.Method{
			Signature:     wrapperSig,
			SignatureText: signature,
			Body:          body,
		},
		Raw:         signature + " " + body,
		Synthesized: true,
	}, nil
}
