/*
Package member implements the registry of treasury members.

Each member holds a single, non transferable badge. The badge ID is the
voter identity used by the cosign package. A member can be disabled and
enabled again, only enabled members are allowed to vote.

Transactions are authenticated with the ed25519 key of the badge holder
account. A per member sequence protects against replays.
*/
package member
