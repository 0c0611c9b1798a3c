/*
Package testament defines the common interfaces that tie together the
subpackages of the will custody application, as well as implementations of
some of the simpler components.

Context is passed between the application, the decorators and the
handlers. This package defines keys for block height, chain ID, block time
and the logger. Each extension may add its own keys to enrich the context
with specific data (for example the signers of a transaction).

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. height, chain ID).
*/
package testament
