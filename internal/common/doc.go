// Package common holds small helpers shared by the reconciliation packages.
package common
