/*
Package app contains the building blocks of an ABCI application: a message
router, a chain of decorators wrapping it, a query router and the StoreApp
and BaseApp types that implement abci.Application on top of a commit store.
*/
package app
