/*
Package app glues extensions into a runnable application.

A Router dispatches transactions to handlers by message path,
ChainDecorators wraps the router in a stack of decorators and BaseApp runs
raw transactions through the stack against a committed store. Every
delivered transaction works on the deliver cache of the CommitStore; the
cache lands in the durable store on Commit.
*/
package app
