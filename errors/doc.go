/*
Package errors implements custom error interfaces for loom.

Reuse the errors declared in this package where possible and define custom
package errors only when absolutely necessary. Custom root errors are
declared with Register(code, description) and must use a unique code.

For reusing errors use ErrXyz.New and ErrXyz.Newf or Wrap(ErrXyz, "...").
Root errors can be tested with ErrXyz.Is(err), which follows the wrap chain.

A stack trace is attached at the innermost wrap. Once you have an error,
fmt.Printf("%+v", err) prints it together with the stack trace.
*/
package errors
