// Package record models one structured proposal record as a string-keyed map
// and provides dot-delimited path access into it.
//
// Paths address nested objects only ("mutationVariables.id"); array elements
// are not addressable. The reserved "_validation" key carries a per-record
// configuration override and is excluded from Content.
package record
