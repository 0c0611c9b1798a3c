/*
Package will implements a time locked, multi signature will.

The owner of a will must check in at least once per interval. When an
interval passes without a check in, anyone can mark the will as
triggerable. From then on the executors approve the release and once a
quorum of them approved, anyone can execute the will, which disburses
the custody balance to the beneficiaries proportionally to their
shares. Until the will is executed the owner can revive it by checking
in again, which clears all approvals.

There are no timers. Every transition happens because someone sent a
message and the block time says it is allowed.
*/
package will
