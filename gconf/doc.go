/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration of an extension.

Each extension keeps a single protobuf configuration entity under the
"_c:<extension>" key. It is loaded from the "conf" section of the
genesis file and can later be patched by the configuration owner.

Not being able to get a configuration value is a critical condition for
the application, handlers return the error to the client and the
application operator must fix the genesis.
*/
package gconf
