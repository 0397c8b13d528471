// Package inventory implements the stock-taking reconciliation workflow.
//
// A stock count is an Inventory header scoped to a ward, owning one
// InventoryRow per counted medical/lot pair. Each row snapshots the
// theoretical stock level at creation and records the physically counted
// quantity; the difference between the two is the line's discrepancy.
//
// # Components
//
//   - Engine: orchestrates creation, row attachment, quantity updates,
//     status transitions, and cascade deletion. All invariants are enforced
//     here, before any write reaches a store.
//   - Stores: GORM-backed persistence for headers and rows, plus a
//     read-only master data provider for wards, medicals, and lots.
//   - Archiver: JSON snapshots of finished inventories in object storage.
//   - Handler: Exposes the engine operations as JSON endpoints.
//   - Loader: Registers the feature with the application.
//
// # Lifecycle
//
// Inventories start in draft, where rows are attached and counted. A draft
// can be validated (counts confirmed, no new rows) or canceled (voided); a
// validated inventory can still have counts corrected and can still be
// canceled, a canceled one is final. Illegal transitions are rejected
// through a finite edge table, so a canceled inventory can never return to
// draft.
//
// # Concurrency
//
// Every operation is one synchronous unit of work against the store.
// Uniqueness of references and of medical/lot pairs is pre-checked for fast
// rejection but ultimately guaranteed by unique indexes; deleting a header
// and its rows happens inside a single transaction.
package inventory
