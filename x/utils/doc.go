/*
Package utils contains decorators shared by every treasury handler.

Savepoint isolates the state changes of a call and publishes the events
emitted by that call once the changes are committed. Recovery turns
panics into errors and Logging writes a log entry per call.
*/
package utils
