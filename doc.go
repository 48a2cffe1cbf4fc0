// Package tjv validates data against schemas written as option vectors.
//
// A schema is a list of option words such as
//
//	-type object -properties {{name -type string -required} {age -type integer -minimum 0}}
//
// given either as nested []any vectors or as brace-quoted list text. It is
// compiled once into a *Schema that may be shared by any number of
// goroutines.
//
// Design policy:
//   - Keep only public APIs in the root package; the compiler and evaluator live under internal/.
//   - Diagnostics accumulate; a pass never stops at the first failure.
//   - Successful passes return a normalized outcome, or the -outkey extraction when the schema declares one.
//
// Typical usage:
//
//	s, err := tjv.Compile([]any{"-type", "object", "-properties", props})
//	out, err := s.Validate(ctx, input)
//	out, err = s.ValidateJSON(ctx, data)
//
//	var res any
//	if !s.ValidateTo(ctx, input, &res) {
//		verr := res.(*tjv.ValidationError)
//	}
package tjv
