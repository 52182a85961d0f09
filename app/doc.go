/*
Package app wires the treasury extensions into a single serialized engine.

It contains the generic pieces (router, decorator chain, transaction
envelope, genesis loading, query routing) and the Application that
processes transactions one at a time against a persistent store. Stack
builds the default handler with all treasury extensions registered.
*/
package app
