/*
Package token is the asset ledger the escrow moves assets with.

A mint describes an asset and the number of decimals its amounts carry. A
mint with zero decimals and a supply of one is a non fungible asset. Every
owner has at most one holding per mint, stored under HoldingAddress. The
holding authority is the address that must authorize any debit; for plain
accounts this is the owner itself, for escrow vaults it is a derived
address no private key exists for.
*/
package token
