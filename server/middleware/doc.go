// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides HTTP request handling functionality for the
Table for Two front-end.

Route definitions are centralized in the DefineRoutes function, which sets up
all paths and their corresponding handlers on the router.
*/
package middleware
