/*
Package errors implements the error model used across the application.

Every error that is returned to a client must wrap one of the registered
root errors. A root error carries a code that is exposed through the ABCI
interface, so that clients can react to a failure kind without parsing the
message. Errors that do not wrap a registered root error are considered
internal and their details are redacted unless the application runs in
debug mode.

Extensions register their own root errors using Register, each with a code
unique across the whole application:

	var ErrNotYetDue = errors.Register(1100, "not yet due")

Use Wrap or Wrapf to add context. The root kind is preserved and can be
tested with the Is method:

	if ErrNotYetDue.Is(err) {
		...
	}
*/
package errors
