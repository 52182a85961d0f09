/*
Package vault implements the custodial account of the treasury.

The vault keeps coin wallets, non fungible holdings, the account badge that
proves ownership of the treasury account, and staking positions with their
unstaked claims. It does not decide anything on its own, the treasury
handlers move assets only after an operation was approved.
*/
package vault
