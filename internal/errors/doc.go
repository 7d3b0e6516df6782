// Package errors provides the structured error type shared by the workshop's
// engine, repositories, orchestrators and CLI.
//
// Errors carry a Code, a user-facing Message, an optional Cause and free-form
// metadata:
//
//	err := errors.NotFoundf("monster %s not found", id).
//	    WithMeta("monster_id", id)
//
// Wrapping keeps the code of the wrapped error:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load monster")
//	}
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", input.Name, vb)
//	errors.ValidateRange("trial_count", input.TrialCount, 1, maxTrials, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Layer guidelines
//
// Engine packages return InvalidArgument only for inputs they cannot process
// deterministically (a non-positive trial count). Expected business outcomes,
// such as spending more bonus points than a character owns, are reported as
// result values rather than errors.
//
// Repositories return NotFound / AlreadyExists and wrap redis failures.
// Orchestrators validate input at the boundary (unknown stat ids, trial count
// limits, negative probabilities) and wrap repository errors with context.
// The CLI maps codes to exit statuses through Code.ExitCode.
package errors
