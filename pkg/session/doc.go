/*
Package session manages live conversations.

A conversation is a transcript.Session: the visible log plus the store saved
transcripts go to. Exchange runs one message through a Responder and honors the
reply's signal. Manager keys conversations by ID for front-ends that serve many
users at once. It keeps them in a live store and runs each exchange as
load, exchange, write back, holding a reference-counted local lock and,
optionally, a distributed lock. Replicas sharing the live store and the locker
can serve the same conversation.
*/
package session
