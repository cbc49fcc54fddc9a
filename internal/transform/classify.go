// Package transform implements the structural rewrite that gives every
// async method of an impl block a synchronous sibling suffixed with
// _blocking. The pass is all-or-nothing: it either produces a complete
// augmented collection or fails with no output.
package transform

import "github.com/toyz/blockgen/internal/models"

// BlockingSuffix is appended to an async method's name to form the name
// of its synchronous wrapper.
const BlockingSuffix = "_blocking"

// ClassifiedMember pairs a member with its classification. Only methods
// whose signatures carry the async flag take part in wrapper generation;
// everything else passes through untouched.
type ClassifiedMember struct {
	Member  models.Member
	IsAsync bool
}

// Classify walks the member sequence in declaration order and marks the
// async methods. The input collection is not modified.
func Classify(collection *models.MethodCollection) []ClassifiedMember {
	classified := make([]ClassifiedMember, 0, len(collection.Members))
	for _, member := range collection.Members {
		isAsync := member.Kind == models.MemberKindMethod && member.Method.Signature.IsAsync
		classified = append(classified, ClassifiedMember{Member: member, IsAsync: isAsync})
	}
	return classified
}
