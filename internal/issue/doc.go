// SPDX-License-Identifier: MPL-2.0

// Package issue catalogs the failures the gobox binary explains to its
// user: each identified issue carries a Markdown remediation guide
// rendered with glamour, and ActionableError attaches operation,
// resource, and suggestions to an underlying error so the housekeeping
// surface can print something better than a bare string.
package issue
