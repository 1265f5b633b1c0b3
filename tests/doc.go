// Package tests holds shared test doubles for the attachment service.
// This file keeps the testing dependencies in go.mod.
package tests

import (
	_ "github.com/DATA-DOG/go-sqlmock"
	_ "github.com/stretchr/testify/assert"
	_ "github.com/stretchr/testify/mock"
	_ "github.com/stretchr/testify/require"
)
