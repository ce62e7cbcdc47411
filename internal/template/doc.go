// Package template evaluates small date expressions embedded in free text.
//
// An expression is a variable name optionally followed by a signed integer
// offset, with no whitespace:
//
//	currentMonth      September
//	currentMonth+2    January 2025 (evaluated in November 2024)
//	currentYear-1     2023
//	currentDay+14     October 2
//	today             9/18/2024
//
// All arithmetic is done in UTC. today does not accept an offset.
//
// Expressions are embedded in text between delimiters ("{{" and "}}" by
// default). Tokens that do not parse or evaluate are left untouched; nothing
// in this package returns an error for bad input.
package template
