// Package scheduling holds the pure scheduling engine: pairing generation,
// greedy slot allocation, season-to-season pattern replay and the derived
// standings and bracket views. Nothing in here touches storage; services load
// inputs, call into this package and persist the results.
package scheduling
