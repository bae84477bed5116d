// Package form provides Controller, a state machine over form values, field
// errors and submission status that composes the validation package.
//
// A Controller is independent of any UI binding. Presentation layers either
// poll State or register a listener with Subscribe; every mutation produces a
// fresh deep-copied snapshot so listeners never observe a partial update.
//
//	ctrl := form.New(form.Config[Signup]{
//		Schema:        signupSchema,
//		InitialValues: map[string]any{"email": ""},
//		OnSubmit: func(ctx context.Context, s Signup) error {
//			return api.CreateAccount(ctx, s)
//		},
//	})
//	ctrl.SetValue("email", "ana@example.com")
//	ctrl.HandleSubmit(ctx, nil)
package form
