/*
Package x contains the helpers shared by all extensions, most notably
the Authenticator that tells a handler who authorized the current
transaction.

Each subpackage is an extension providing its own messages, models and
handlers.
*/
package x
