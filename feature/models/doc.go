// Package models defines the local entities the ERP is mirrored into.
//
// Every synchronized entity carries the ERP id in a unique id_original
// column. Money columns are decimals with a fixed scale; foreign references
// are plain nullable key columns so a missing optional reference stays NULL.
package models
