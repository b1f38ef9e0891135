/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps at most one configuration object. It is loaded from the
"conf" section of the genesis file and stored under a key derived from the
extension name. Handlers load it whenever they need it.

Not being able to load the configuration is a critical condition for an
extension. Handlers must fail and the chain must be configured correctly.
*/
package gconf
