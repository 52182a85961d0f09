/*
Package errors implements custom error interfaces for the treasury.

Reuse the errors declared in this package as much as possible and only
define custom errors in an extension when the failure is specific to that
extension. Custom errors must be registered with Register(code, description)
so that no two errors share a code.

To create an error instance at runtime wrap one of the registered errors:

	errors.Wrap(errors.ErrNotFound, "member")
	errors.Wrapf(errors.ErrInput, "unknown kind %d", k)

The innermost wrap attaches a stack trace. Format the error with %+v to
print it.
*/
package errors
