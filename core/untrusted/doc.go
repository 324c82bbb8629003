// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package untrusted reads and writes user-controlled cookies.

Everything returned by this package originates from the client and must be
validated before use; callers decide how far to trust each value.
*/
package untrusted
