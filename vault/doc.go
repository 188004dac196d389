/*
Vault contract is a custodial GAS ledger. Every owner account gets a vault,
a sub-account with the address derived from the owner script hash. Owners
deposit GAS into their vaults, withdraw it back and stage transfers to
other accounts which are executed later in a separate transaction.

Each pending transfer is identified by an owner-chosen seed and executes
at most once. Leases configured by the committee are charged for vault
and transfer records, transfer leases are returned when the record is
closed.

# Contract notifications

Deposit notification. This notification is produced when GAS is credited
to the vault, either via Deposit method or via direct GAS transfer.

	Deposit:
	  - name: owner
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: balance
	    type: Integer

Withdraw notification. This notification is produced when the owner takes
GAS back from the vault.

	Withdraw:
	  - name: owner
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: balance
	    type: Integer

SubmitTransaction notification. This notification is produced when a
pending transfer is created.

	SubmitTransaction:
	  - name: owner
	    type: Hash160
	  - name: receiver
	    type: Hash160
	  - name: amount
	    type: Integer

ExecuteTransaction notification. This notification is produced when a
pending transfer is executed and closed.

	ExecuteTransaction:
	  - name: owner
	    type: Hash160

SetConfig notification. This notification is produced when committee
changes contract configuration.

	SetConfig:
	  - name: key
	    type: String
	  - name: value
	    type: Integer
*/
package vault
