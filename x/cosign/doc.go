/*
Package cosign implements the M-of-N approval engine of the treasury.

An Operation is a complete description of an action the treasury may take.
Its canonical key is used to find the vote set (Cosigners) collected so far.
Members vote by proposing or cosigning an operation. Once the number of
votes cast by currently enabled members reaches the configured minimum, the
round is approved, the vote set is cleared and the caller must apply the
operation effect.

The vote set is purged of members that were disabled since they voted
every time a new vote is cast. Records are never deleted, an executed
operation keeps an empty vote set so a new round can be started.
*/
package cosign
