/*
Package batch implements batch transactions.

A batch transaction holds a list of messages that the application
processes one after another in a single transaction. The transaction
fails if any of the messages fails, so an owner can create a will and set
all of its beneficiaries atomically. Signatures and other decorators that
do not rely on messages are applied only once per transaction, the
embedded messages do not hit the middleware placed before the batch
decorator.
*/
package batch
