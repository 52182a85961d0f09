/*
Package treasury provides the messages and handlers of the treasury
operations.

Every message describes an operation. Submitting a message is a vote of the
sender on that operation. The handler that casts the vote completing the
round applies the operation effect. The remove signature message withdraws
a vote.
*/
package treasury
