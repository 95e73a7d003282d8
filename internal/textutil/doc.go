// Package textutil provides text processing utilities for filename
// sanitization, phrase normalization, and deriving display titles from
// source identifiers.
package textutil
