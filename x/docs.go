/*
Package x contains the extension contracts shared by all extensions.

Extensions implement common functionality (Handler, Decorator, Initializer,
etc.) and are combined together to construct an application. Sub-packages
provide the signature verification, the ledger, the escrow and the
decorators used by every application.
*/
package x
