/*
Package escrow implements custodial escrow of a single non fungible asset.

A maker deposits the asset into a vault: a token holding owned and
controlled by an address derived from the maker, a maker chosen nonce and
the configured service id. No private key exists for a derived address, so
the asset can only leave the vault through the withdraw handler of this
package, which is the only code able to put the vault authority into the
context.

While the asset is in the vault the maker can attach listing terms, a sell
price and a loan request, to the escrow. Terms never move assets.

	Deposit -> Funded -> (SellOffer | LoanOffer)* -> Withdraw -> Emptied
*/
package escrow
