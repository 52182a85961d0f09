/*
Package orm provides an easy to use db wrapper.

Models are persisted in buckets. Each bucket has a unique name that is used
as the key prefix of all models it stores:

	<bucket name>:<key>

A bucket is bound to a single model type so that it can allocate fresh
instances when iterating. Keys can be provided by the caller or
generated by a Sequence assigned to the bucket.
*/
package orm
