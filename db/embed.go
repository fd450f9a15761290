// Package db provides embedded database schema files for both services.
package db

import _ "embed"

// ArticlesSchema contains the DDL statements for the articles service tables.
//
//go:embed migrations/articles_schema.sql
var ArticlesSchema string

// OrdersSchema contains the DDL statements for the orders service tables.
//
//go:embed migrations/orders_schema.sql
var OrdersSchema string
