// Package jsontree holds an order-preserving JSON value type together with
// its parser and pretty printer. encoding/json maps lose object key order,
// so documents are decoded token by token into Values instead.
package jsontree
