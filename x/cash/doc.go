/*
Package cash is the custody ledger.

It keeps a wallet of coins for every address and moves coins between
them. Some addresses are custody accounts: they are opened by an
extension and only that extension can move coins out of them, through
the Custody handle it constructed. Anyone can send coins into a custody
account.
*/
package cash
